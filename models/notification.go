package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationNewChallenge    = "new_challenge"
	NotificationNewTurn         = "new_turn"
	NotificationDebateCompleted = "debate_completed"
	NotificationThoughtReply    = "thought_reply"
)

// Notification is created as a side effect of lifecycle transitions. The
// acting user is never its own recipient.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	RecipientID primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	Type        string              `bson:"type" json:"type"`
	DebateID    *primitive.ObjectID `bson:"debateId,omitempty" json:"debateId,omitempty"`
	PositionID  *primitive.ObjectID `bson:"positionId,omitempty" json:"positionId,omitempty"`
	ThoughtID   *primitive.ObjectID `bson:"thoughtId,omitempty" json:"thoughtId,omitempty"`
	Data        map[string]string   `bson:"data,omitempty" json:"data,omitempty"`
	IsRead      bool                `bson:"isRead" json:"isRead"`
	ReadAt      *time.Time          `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
