package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// Collection names used across the service
const (
	ProfilesCollection      = "profiles"
	ThoughtsCollection      = "thoughts"
	PositionsCollection     = "positions"
	DebatesCollection       = "debates"
	DebateTurnsCollection   = "debate_turns"
	VotesCollection         = "debate_votes"
	NotificationsCollection = "notifications"
)

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "agorahall"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "agorahall"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "agorahall"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	return ensureIndexes(ctx)
}

// ensureIndexes creates the indexes the service relies on. Votes are keyed
// one row per (debateId, voterProfileId) so an index with a unique constraint
// backs the upsert.
func ensureIndexes(ctx context.Context) error {
	votes := MongoDatabase.Collection(VotesCollection)
	_, err := votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "debateId", Value: 1}, {Key: "voterProfileId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create vote index: %w", err)
	}

	turns := MongoDatabase.Collection(DebateTurnsCollection)
	_, err = turns.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "debateId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create turn index: %w", err)
	}

	notifications := MongoDatabase.Collection(NotificationsCollection)
	_, err = notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification index: %w", err)
	}

	return nil
}
