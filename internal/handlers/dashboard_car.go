package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webcars/internal/models"
	"webcars/internal/storage"
)

var whatsAppPattern = regexp.MustCompile(`^\d{11,12}$`)

type CarImageInput struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

type CreateCarRequest struct {
	Name        string          `json:"name" binding:"required"`
	Model       string          `json:"model" binding:"required"`
	Year        string          `json:"year" binding:"required"`
	KM          string          `json:"km" binding:"required"`
	Price       string          `json:"price" binding:"required"`
	City        string          `json:"city" binding:"required"`
	WhatsApp    string          `json:"whatsapp" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Images      []CarImageInput `json:"images"`
}

// ownerCarsFilter scopes a cars query to a single owner. Every dashboard
// read goes through this filter so one seller never sees another's listings.
func ownerCarsFilter(uid string) bson.M {
	return bson.M{"uid": uid}
}

// validateNewCar runs entirely before any persistence call. A draft with
// zero images is rejected here and never reaches the database.
func validateNewCar(req CreateCarRequest) error {
	if !whatsAppPattern.MatchString(strings.TrimSpace(req.WhatsApp)) {
		return errors.New("whatsapp must be a phone number with 11 or 12 digits")
	}
	if len(req.Images) == 0 {
		return errors.New("at least one image is required")
	}
	for _, image := range req.Images {
		if strings.TrimSpace(image.Name) == "" || strings.TrimSpace(image.URL) == "" {
			return errors.New("every image needs a name and a url")
		}
	}
	return nil
}

/*
GET /dashboard/cars
Only the caller's listings, filtered by uid. No ordering promised.
*/
func GetMyCars(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /dashboard/cars"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("cars").Find(ctx, ownerCarsFilter(userID.Hex()))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		cars, err := decodeCars(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, cars)
	}
}

/*
POST /dashboard/cars
Images must already be uploaded; the request carries their keys and URLs.
The name is stored upper-cased so the prefix search stays a range query.
*/
func CreateCar(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /dashboard/cars"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req CreateCarRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := validateNewCar(req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "user not found")
			return
		}

		uid := userID.Hex()
		images := make([]models.CarImage, 0, len(req.Images))
		for _, image := range req.Images {
			images = append(images, models.CarImage{
				Name: strings.TrimSpace(image.Name),
				UID:  uid,
				URL:  strings.TrimSpace(image.URL),
			})
		}

		car := models.Car{
			Name:        strings.ToUpper(strings.TrimSpace(req.Name)),
			Model:       strings.TrimSpace(req.Model),
			Year:        strings.TrimSpace(req.Year),
			KM:          strings.TrimSpace(req.KM),
			Price:       strings.TrimSpace(req.Price),
			City:        strings.TrimSpace(req.City),
			WhatsApp:    strings.TrimSpace(req.WhatsApp),
			Description: strings.TrimSpace(req.Description),
			Created:     time.Now(),
			Owner:       user.Name,
			UID:         uid,
			Images:      images,
		}

		res, err := db.Collection("cars").InsertOne(ctx, car)
		if err != nil {
			log.Printf("[%s] insert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		car.ID = res.InsertedID.(primitive.ObjectID)
		log.Printf("[%s] car created id=%s uid=%s", route, car.ID.Hex(), uid)
		c.JSON(http.StatusCreated, car)
	}
}

/*
DELETE /dashboard/cars/:id
Owner-checked. The document goes first; every image object deletion is then
attempted independently. A failed object deletion is recorded as an orphan
instead of aborting the rest.
*/
func DeleteCar(db *mongo.Database, store storage.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /dashboard/cars/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		carID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "car not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var car models.Car
		if err := db.Collection("cars").FindOne(ctx, bson.M{"_id": carID}).Decode(&car); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusNotFound, route, "car not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if car.UID != userID.Hex() {
			respondWithError(c, http.StatusForbidden, route, "not the owner of this car")
			return
		}

		if _, err := db.Collection("cars").DeleteOne(ctx, bson.M{"_id": carID}); err != nil {
			log.Printf("[%s] delete failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		failed := cleanupCarImages(ctx, store, car.Images)
		if len(failed) > 0 {
			recordOrphanImages(ctx, db, car.ID.Hex(), failed)
		}

		log.Printf("[%s] car removed id=%s images=%d orphaned=%d", route, carID.Hex(), len(car.Images), len(failed))
		c.JSON(http.StatusOK, gin.H{"message": "car removed"})
	}
}

type orphanedImage struct {
	image  models.CarImage
	reason string
}

// cleanupCarImages attempts every deletion even when earlier ones fail.
func cleanupCarImages(ctx context.Context, store storage.ObjectStorage, images []models.CarImage) []orphanedImage {
	failed := make([]orphanedImage, 0)

	for _, image := range images {
		if err := store.Delete(ctx, image.UID, image.Name); err != nil {
			log.Printf("[CARS] [ERROR] image delete failed uid=%s name=%s: %v", image.UID, image.Name, err)
			failed = append(failed, orphanedImage{image: image, reason: err.Error()})
		}
	}

	return failed
}

func recordOrphanImages(ctx context.Context, db *mongo.Database, carID string, failed []orphanedImage) {
	now := time.Now()
	docs := make([]interface{}, 0, len(failed))
	for _, item := range failed {
		docs = append(docs, models.OrphanImage{
			CarID:    carID,
			UID:      item.image.UID,
			Name:     item.image.Name,
			URL:      item.image.URL,
			Reason:   item.reason,
			FailedAt: now,
		})
	}

	if _, err := db.Collection("orphan_images").InsertMany(ctx, docs); err != nil {
		log.Println("[CARS] [ERROR] failed to record orphan images:", err)
	}
}
