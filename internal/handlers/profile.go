package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"webcars/internal/models"
)

const profileFallback = "Not provided"

type ProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type PasswordRequest struct {
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// mergeProfile fills blank fields from the account identity (name, email)
// or the literal fallback text (contact, address, city), matching how the
// profile form behaves on first edit.
func mergeProfile(req ProfileRequest, user models.User) models.Profile {
	profile := models.Profile{
		UID:       user.ID.Hex(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Contact:   strings.TrimSpace(req.Contact),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		UpdatedAt: time.Now(),
	}

	if profile.Name == "" {
		profile.Name = user.Name
	}
	if profile.Email == "" {
		profile.Email = user.Email
	}
	if profile.Contact == "" {
		profile.Contact = profileFallback
	}
	if profile.Address == "" {
		profile.Address = profileFallback
	}
	if profile.City == "" {
		profile.City = profileFallback
	}

	return profile
}

/*
GET /user/profile
The stored profile, or the account identity when none was ever saved.
*/
func GetProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/profile"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var profile models.Profile
		err := db.Collection("profiles").FindOne(ctx, bson.M{"uid": userID.Hex()}).Decode(&profile)
		if err == nil {
			c.JSON(http.StatusOK, profile)
			return
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, models.Profile{
			UID:   user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
		})
	}
}

/*
PUT /user/profile
Upsert keyed by uid: update when a profile exists, create it otherwise.
*/
func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/profile"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		profile := mergeProfile(req, user)

		_, err := db.Collection("profiles").UpdateOne(ctx,
			bson.M{"uid": profile.UID},
			bson.M{"$set": profile},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Printf("[%s] upsert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] profile saved uid=%s", route, profile.UID)
		c.JSON(http.StatusOK, profile)
	}
}

/*
PUT /user/password
Rehashes the password and revokes every active refresh token, forcing a
fresh login everywhere.
*/
func UpdatePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/password"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req PasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Password != req.PasswordConfirm {
			respondWithError(c, http.StatusBadRequest, route, "passwords do not match")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"passwordHash": string(hash),
				"updatedAt":    time.Now(),
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if _, err := db.Collection("refresh_tokens").UpdateMany(ctx,
			bson.M{"userId": userID, "revoked": false},
			bson.M{"$set": bson.M{"revoked": true}},
		); err != nil {
			log.Printf("[%s] refresh token revocation failed: %v", route, err)
		}

		log.Printf("[%s] password updated uid=%s", route, userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}
