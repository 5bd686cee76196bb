package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureCarIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("cars").Indexes()

	// name is stored upper-cased; this index serves the prefix range search.
	carIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_range"),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("uid_index"),
		},
		{
			Keys:    bson.D{{Key: "created", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	}

	log.Println("EnsureCarIndexes: creating cars indexes")
	_, err := indexes.CreateMany(ctx, carIndexes)
	if err != nil {
		log.Println("EnsureCarIndexes: cars index error:", err)
		return err
	}
	log.Println("EnsureCarIndexes: cars indexes created")
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureProfileIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("profiles").Indexes()

	uidIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().
			SetName("uid_unique").
			SetUnique(true),
	}

	log.Println("EnsureProfileIndexes: creating uid_unique index")
	_, err := indexes.CreateOne(ctx, uidIndex)
	if err != nil {
		log.Println("EnsureProfileIndexes: uid index error:", err)
		return err
	}
	log.Println("EnsureProfileIndexes: uid_unique index created")
	return nil
}

func EnsureRefreshTokenIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("refresh_tokens").Indexes()

	tokenHashIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "tokenHash", Value: 1}},
		Options: options.Index().SetName("tokenHash_index"),
	}

	log.Println("EnsureRefreshTokenIndexes: creating tokenHash_index index")
	_, err := indexes.CreateOne(ctx, tokenHashIndex)
	if err != nil {
		log.Println("EnsureRefreshTokenIndexes: tokenHash index error:", err)
		return err
	}
	log.Println("EnsureRefreshTokenIndexes: tokenHash_index index created")
	return nil
}
