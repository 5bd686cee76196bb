package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"webcars/internal/config"
	"webcars/internal/database"
	"webcars/internal/handlers"
	"webcars/internal/middleware"
	"webcars/internal/storage"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCarIndexes(db); err != nil {
		log.Printf("car index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProfileIndexes(db); err != nil {
		log.Printf("profile index warning: %v", err)
	}
	if err := database.EnsureRefreshTokenIndexes(db); err != nil {
		log.Printf("refresh token index warning: %v", err)
	}

	store, err := storage.NewMinioStorage(storage.MinioConfig{
		Endpoint:  config.AppEnv.MinioEndpoint,
		AccessKey: config.AppEnv.MinioAccessKey,
		SecretKey: config.AppEnv.MinioSecretKey,
		Bucket:    config.AppEnv.MinioBucket,
		UseSSL:    config.AppEnv.MinioUseSSL,
	})
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()

	r.GET("/cars", handlers.GetCars(db))
	r.GET("/cars/:id", handlers.GetCar(db))

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		dashboard.GET("/cars", handlers.GetMyCars(db))
		dashboard.POST("/cars", handlers.CreateCar(db))
		dashboard.DELETE("/cars/:id", handlers.DeleteCar(db, store))
		dashboard.POST("/cars/images", handlers.UploadCarImage(store))
		dashboard.DELETE("/cars/images/:name", handlers.DeleteCarImage(store))
	}

	user := r.Group("/user")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/profile", handlers.GetProfile(db))
		user.PUT("/profile", handlers.UpdateProfile(db))
		user.PUT("/password", handlers.UpdatePassword(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
