package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is an embedded reply on a review. At most one is kept per review.
type Comment struct {
	Description string    `bson:"description" json:"description"`
	Title       string    `bson:"title" json:"title"`
	UserID      string    `bson:"user_id" json:"user_id"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Description string             `bson:"description" json:"description"`
	Image       []string           `bson:"image" json:"image"`
	Comment     []Comment          `bson:"comment" json:"comment"`
	Tags        []string           `bson:"tags" json:"tags"`
	Score       int                `bson:"score" json:"score"`
	Helpful     int                `bson:"helpful" json:"helpful"`
	ProductID   string             `bson:"product_id" json:"product_id"`
	IsVerified  bool               `bson:"is_verified" json:"is_verified"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	Title       string             `bson:"title" json:"title"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Location    string             `bson:"location" json:"location"`
	MetaData    bson.M             `bson:"meta_data" json:"meta_data"`
}

// ReviewPatch carries the fields a PUT is allowed to change. Product id,
// identifiers and creation history are immutable.
type ReviewPatch struct {
	Description string    `bson:"description" json:"description"`
	Tags        []string  `bson:"tags" json:"tags"`
	Score       int       `bson:"score" json:"score"`
	Helpful     int       `bson:"helpful" json:"helpful"`
	IsVerified  bool      `bson:"is_verified" json:"is_verified"`
	Title       string    `bson:"title" json:"title"`
	Location    string    `bson:"location" json:"location"`
	Comment     []Comment `bson:"comment" json:"comment"`
}
