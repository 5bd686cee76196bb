package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrphanImage records a stored object whose car document is already gone
// but whose deletion from object storage failed. Kept for later cleanup
// instead of silently leaking the object.
type OrphanImage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CarID    string             `bson:"carId" json:"carId"`
	UID      string             `bson:"uid" json:"uid"`
	Name     string             `bson:"name" json:"name"`
	URL      string             `bson:"url" json:"url"`
	Reason   string             `bson:"reason" json:"reason"`
	FailedAt time.Time          `bson:"failedAt" json:"failedAt"`
}
