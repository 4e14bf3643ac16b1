package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agorahall/db"
	"agorahall/models"
)

// CreateNotification inserts a notification row. Callers treat delivery as
// best-effort: a failure here must never fail the action that caused it.
func CreateNotification(ctx context.Context, n models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := db.GetCollection(db.NotificationsCollection).InsertOne(ctx, n)
	return err
}

// notifyBestEffort logs and swallows notification failures.
func notifyBestEffort(ctx context.Context, n models.Notification) {
	if err := CreateNotification(ctx, n); err != nil {
		log.Printf("Failed to create %s notification for %s: %v", n.Type, n.RecipientID.Hex(), err)
	}
}

// ListNotifications returns the newest notifications for a recipient.
func ListNotifications(ctx context.Context, recipientID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := db.GetCollection(db.NotificationsCollection).Find(ctx, bson.M{"recipientId": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a recipient.
func UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return db.GetCollection(db.NotificationsCollection).CountDocuments(ctx, bson.M{
		"recipientId": recipientID,
		"isRead":      false,
	})
}

// MarkNotificationRead marks one notification read. Only the recipient can
// mark their own notifications.
func MarkNotificationRead(ctx context.Context, notificationID, recipientID primitive.ObjectID) error {
	now := time.Now()
	result, err := db.GetCollection(db.NotificationsCollection).UpdateOne(ctx,
		bson.M{"_id": notificationID, "recipientId": recipientID},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification for a recipient.
func MarkAllNotificationsRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	now := time.Now()
	result, err := db.GetCollection(db.NotificationsCollection).UpdateMany(ctx,
		bson.M{"recipientId": recipientID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
