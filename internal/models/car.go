package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarImage references one stored object. Name doubles as the object key
// under images/{uid}/, so deleting a car must also delete every key.
type CarImage struct {
	Name string `bson:"name" json:"name"`
	UID  string `bson:"uid" json:"uid"`
	URL  string `bson:"url" json:"url"`
}

// Car is a published vehicle listing. Name is stored upper-cased so the
// prefix search can run as a lexicographic range query on the name index.
type Car struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Model       string             `bson:"model" json:"model"`
	Year        string             `bson:"year" json:"year"`
	KM          string             `bson:"km" json:"km"`
	Price       string             `bson:"price" json:"price"`
	City        string             `bson:"city" json:"city"`
	WhatsApp    string             `bson:"whatsapp" json:"whatsapp"`
	Description string             `bson:"description" json:"description"`
	Created     time.Time          `bson:"created" json:"created"`
	Owner       string             `bson:"owner" json:"owner"`
	UID         string             `bson:"uid" json:"uid"`
	Images      []CarImage         `bson:"images" json:"images"`
}
