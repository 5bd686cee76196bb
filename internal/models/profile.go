package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the seller's public contact data. At most one per uid,
// created lazily on the first edit and never deleted.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UID       string             `bson:"uid" json:"uid"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Contact   string             `bson:"contact" json:"contact"`
	Address   string             `bson:"address" json:"address"`
	City      string             `bson:"city" json:"city"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
