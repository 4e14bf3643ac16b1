package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agorahall/db"
	"agorahall/models"
)

// SeedDemoData populates a couple of demo profiles and an example position
// when the database is empty, so a fresh install has something to explore.
func SeedDemoData() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profiles := db.GetCollection(db.ProfilesCollection)
	count, err := profiles.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("Seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	now := time.Now()
	alex := models.Profile{
		ID:          primitive.NewObjectID(),
		Email:       "alex@example.com",
		Username:    "alex",
		DisplayName: "Alex",
		Bio:         "Pins definitions before arguments.",
		CreatedAt:   now,
	}
	riley := models.Profile{
		ID:          primitive.NewObjectID(),
		Email:       "riley@example.com",
		Username:    "riley",
		DisplayName: "Riley",
		Bio:         "Stress-tests every claim.",
		CreatedAt:   now,
	}

	if _, err := profiles.InsertMany(ctx, []interface{}{alex, riley}); err != nil {
		log.Printf("Failed to seed profiles: %v", err)
		return
	}

	position := models.Position{
		ID:       primitive.NewObjectID(),
		AuthorID: alex.ID,
		Thesis:   "Truth requires shared definitions before it can be debated.",
		Definitions: []models.Definition{
			{Term: "Truth", Definition: "Correspondence with reality"},
		},
		Sources:   []string{"https://plato.stanford.edu/entries/truth/"},
		Category:  "philosophy_ethics",
		CreatedAt: now,
	}
	if _, err := db.GetCollection(db.PositionsCollection).InsertOne(ctx, position); err != nil {
		log.Printf("Failed to seed position: %v", err)
		return
	}

	log.Println("Seeded demo profiles and position")
}
