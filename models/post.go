package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxContentLength = 300

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	URL  string    `bson:"url" json:"url"`
	Type MediaType `bson:"type" json:"type"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Content   string               `bson:"content" json:"content"`
	Media     []Media              `bson:"media" json:"media"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	Author    *UserSummary         `bson:"-" json:"author,omitempty"` // Populated in response only
}
