package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agorahall/db"
	"agorahall/models"
)

// GetProfileByEmail looks up the profile row for an authenticated email.
func GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.GetCollection(db.ProfilesCollection).FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no profile for email %s", email)
		}
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile returns the profile for an email, creating it on first
// sight. Display name defaults to the part before '@'.
func EnsureProfile(ctx context.Context, email string) (*models.Profile, error) {
	collection := db.GetCollection(db.ProfilesCollection)

	name := ExtractNameFromEmail(email)
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":       email,
			"username":    name,
			"displayName": name,
			"createdAt":   time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	err := collection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return &profile, nil
}
