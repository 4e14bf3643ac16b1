package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thought is an informal post. Replies form a tree rooted at RootThoughtID;
// a root thought has Depth 0 and RootThoughtID equal to its own ID.
// Thoughts are never hard-deleted; IsDeleted hides them from feeds, and
// IsPromoted is flipped once when the thought becomes a Position.
type Thought struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	AuthorID        primitive.ObjectID  `bson:"authorId" json:"authorId"`
	Title           string              `bson:"title,omitempty" json:"title,omitempty"`
	Content         string              `bson:"content" json:"content"`
	Category        string              `bson:"category" json:"category"`
	ParentThoughtID *primitive.ObjectID `bson:"parentThoughtId,omitempty" json:"parentThoughtId,omitempty"`
	RootThoughtID   primitive.ObjectID  `bson:"rootThoughtId" json:"rootThoughtId"`
	Depth           int                 `bson:"depth" json:"depth"`
	IsPromoted      bool                `bson:"isPromoted" json:"isPromoted"`
	IsDeleted       bool                `bson:"isDeleted" json:"isDeleted"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}
