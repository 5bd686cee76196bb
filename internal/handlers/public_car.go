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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webcars/internal/models"
)

/*
GET /cars
- no search: every car, newest first
- search: upper-cased prefix range query on name
- pagination only when page + limit are both given
*/
func GetCars(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cars"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{}
		search := strings.TrimSpace(c.Query("search"))
		if search != "" {
			filter = carSearchFilter(search)
		}
		findOptions := carListOptions(search != "")

		pageStr := c.Query("page")
		limitStr := c.Query("limit")

		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}

			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("cars").Find(ctx, filter, findOptions)
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

		log.Printf("[%s] returning %d cars", route, len(cars))
		c.JSON(http.StatusOK, cars)
	}
}

type carSeller struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	City    string `json:"city"`
}

/*
GET /cars/:id
Detail page payload: the car, the seller block (profile, falling back to the
account identity when the seller never edited a profile) and the prefilled
WhatsApp contact link. Unknown id answers 404 so the client can send the
visitor back home.
*/
func GetCar(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cars/:id"
		defer handlePanic(c, route)

		carID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "car not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
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

		seller := loadCarSeller(ctx, db, car)

		c.JSON(http.StatusOK, gin.H{
			"car":        car,
			"seller":     seller,
			"contactUrl": whatsAppLink(car.WhatsApp, car.Name),
		})
	}
}

func loadCarSeller(ctx context.Context, db *mongo.Database, car models.Car) carSeller {
	var profile models.Profile
	err := db.Collection("profiles").FindOne(ctx, bson.M{"uid": car.UID}).Decode(&profile)
	if err == nil {
		return carSeller{
			Name:    profile.Name,
			Email:   profile.Email,
			Contact: profile.Contact,
			Address: profile.Address,
			City:    profile.City,
		}
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Println("[CARS] [ERROR] seller profile lookup failed:", err)
	}

	seller := carSeller{Name: car.Owner, Contact: car.WhatsApp}

	userID, idErr := primitive.ObjectIDFromHex(car.UID)
	if idErr != nil {
		return seller
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
		seller.Name = user.Name
		seller.Email = user.Email
	}

	return seller
}
