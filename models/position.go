package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Definition pins a term used in a Position's thesis.
type Definition struct {
	Term       string `bson:"term" json:"term"`
	Definition string `bson:"definition" json:"definition"`
}

// Position is a formal, citable thesis. Immutable after creation; it serves
// as the anchor for zero or more debates.
type Position struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	AuthorID      primitive.ObjectID  `bson:"authorId" json:"authorId"`
	Title         string              `bson:"title,omitempty" json:"title,omitempty"`
	Thesis        string              `bson:"thesis" json:"thesis"`
	Definitions   []Definition        `bson:"definitions" json:"definitions"`
	Sources       []string            `bson:"sources" json:"sources"`
	Category      string              `bson:"category" json:"category"`
	FromThoughtID *primitive.ObjectID `bson:"fromThoughtId,omitempty" json:"fromThoughtId,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}
