package handlers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"webcars/internal/storage"
)

const maxImageSize = 5 << 20

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// validateImageFile enforces the jpeg/png whitelist and the size cap before
// anything touches object storage.
func validateImageFile(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	contentType, ok := imageContentTypes[extension]
	if !ok {
		return "", fmt.Errorf("unsupported image type: %s (jpeg or png only)", extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	return contentType, nil
}

/*
POST /dashboard/cars/images
Multipart field "image". Stores the object under images/{uid}/{key} and
answers with the reference the create-car request later embeds.
*/
func UploadCarImage(store storage.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /dashboard/cars/images"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file is required")
			return
		}

		contentType, err := validateImageFile(file)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		reader, err := file.Open()
		if err != nil {
			log.Printf("[%s] failed to open upload %s: %v", route, file.Filename, err)
			respondWithError(c, http.StatusInternalServerError, route, "upload failed")
			return
		}
		defer reader.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		uid := userID.Hex()
		key := uuid.New().String()

		url, err := store.Upload(ctx, uid, key, reader, file.Size, contentType)
		if err != nil {
			log.Printf("[%s] upload failed uid=%s key=%s: %v", route, uid, key, err)
			respondWithError(c, http.StatusInternalServerError, route, "upload failed")
			return
		}

		log.Printf("[%s] image uploaded uid=%s key=%s", route, uid, key)
		c.JSON(http.StatusCreated, gin.H{
			"name": key,
			"uid":  uid,
			"url":  url,
		})
	}
}

/*
DELETE /dashboard/cars/images/:name
Removes a draft image object. The path is derived from the caller's uid, so
nobody can delete under another owner's prefix.
*/
func DeleteCarImage(store storage.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /dashboard/cars/images/:name"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		name := strings.TrimSpace(c.Param("name"))
		if name == "" || strings.Contains(name, "/") {
			respondWithError(c, http.StatusBadRequest, route, "invalid image name")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := store.Delete(ctx, userID.Hex(), name); err != nil {
			log.Printf("[%s] delete failed name=%s: %v", route, name, err)
			respondWithError(c, http.StatusInternalServerError, route, "delete failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "image removed"})
	}
}
