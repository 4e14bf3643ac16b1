package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"agorahall/db"
	"agorahall/models"
	"agorahall/structs"
	"agorahall/utils"
)

// CountAuthoredToday counts rows an author created since local midnight.
// The quota built on it is a soft limit: two near-simultaneous submissions
// may both pass the check, which is acceptable.
func CountAuthoredToday(ctx context.Context, collection string, authorID primitive.ObjectID) (int64, error) {
	return db.GetCollection(collection).CountDocuments(ctx, bson.M{
		"authorId":  authorID,
		"createdAt": bson.M{"$gte": utils.StartOfDay(time.Now())},
	})
}

// CreateThought inserts a thought after checking the author's daily quota.
// Replies inherit their tree from the parent and notify the parent's author.
func CreateThought(ctx context.Context, authorID primitive.ObjectID, req structs.CreateThoughtRequest, dailyLimit int) (*models.Thought, error) {
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	count, err := CountAuthoredToday(ctx, db.ThoughtsCollection, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check daily quota: %w", err)
	}
	if count >= int64(dailyLimit) {
		return nil, ErrQuotaExceeded
	}

	thought := models.Thought{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Category:  strings.ToLower(req.Category),
		CreatedAt: time.Now(),
	}
	// A root thought roots its own tree.
	thought.RootThoughtID = thought.ID

	var parent *models.Thought
	if req.ParentThoughtID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentThoughtID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent thought id")
		}
		parent = &models.Thought{}
		err = db.GetCollection(db.ThoughtsCollection).FindOne(ctx, bson.M{"_id": parentID, "isDeleted": false}).Decode(parent)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}
		thought.ParentThoughtID = &parent.ID
		thought.RootThoughtID = parent.RootThoughtID
		thought.Depth = parent.Depth + 1
	}

	if _, err := db.GetCollection(db.ThoughtsCollection).InsertOne(ctx, thought); err != nil {
		return nil, fmt.Errorf("failed to insert thought: %w", err)
	}

	if parent != nil && parent.AuthorID != authorID {
		notifyBestEffort(ctx, models.Notification{
			RecipientID: parent.AuthorID,
			Type:        models.NotificationThoughtReply,
			ThoughtID:   &thought.ID,
			Data:        map[string]string{"rootThoughtId": thought.RootThoughtID.Hex()},
		})
	}

	return &thought, nil
}

// CreatePosition inserts a position after checking the author's daily quota.
func CreatePosition(ctx context.Context, authorID primitive.ObjectID, req structs.CreatePositionRequest, dailyLimit int) (*models.Position, error) {
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(req.Thesis) == "" {
		return nil, fmt.Errorf("thesis is required")
	}

	count, err := CountAuthoredToday(ctx, db.PositionsCollection, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check daily quota: %w", err)
	}
	if count >= int64(dailyLimit) {
		return nil, ErrQuotaExceeded
	}

	position := models.Position{
		ID:          primitive.NewObjectID(),
		AuthorID:    authorID,
		Title:       strings.TrimSpace(req.Title),
		Thesis:      req.Thesis,
		Definitions: toDefinitions(req.Definitions),
		Sources:     req.Sources,
		Category:    strings.ToLower(req.Category),
		CreatedAt:   time.Now(),
	}

	if _, err := db.GetCollection(db.PositionsCollection).InsertOne(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to insert position: %w", err)
	}

	return &position, nil
}

// PromoteThought converts a thought into a position. The promotion flag is
// one-way: a conditional update keeps two racing promotions from minting
// two positions.
func PromoteThought(ctx context.Context, thoughtID, callerID primitive.ObjectID, req structs.PromoteThoughtRequest, dailyLimit int) (*models.Position, error) {
	var thought models.Thought
	err := db.GetCollection(db.ThoughtsCollection).FindOne(ctx, bson.M{"_id": thoughtID}).Decode(&thought)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if thought.AuthorID != callerID {
		return nil, ErrNotAuthor
	}
	if thought.IsPromoted {
		return nil, ErrAlreadyPromoted
	}
	if thought.IsDeleted {
		return nil, ErrNotFound
	}

	count, err := CountAuthoredToday(ctx, db.PositionsCollection, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check daily quota: %w", err)
	}
	if count >= int64(dailyLimit) {
		return nil, ErrQuotaExceeded
	}

	// Claim the flag first; the loser of a race sees zero matches.
	result, err := db.GetCollection(db.ThoughtsCollection).UpdateOne(ctx,
		bson.M{"_id": thoughtID, "isPromoted": false},
		bson.M{"$set": bson.M{"isPromoted": true}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to flag thought as promoted: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrAlreadyPromoted
	}

	position := models.Position{
		ID:            primitive.NewObjectID(),
		AuthorID:      callerID,
		Title:         thought.Title,
		Thesis:        req.Thesis,
		Definitions:   toDefinitions(req.Definitions),
		Sources:       req.Sources,
		Category:      thought.Category,
		FromThoughtID: &thought.ID,
		CreatedAt:     time.Now(),
	}

	if _, err := db.GetCollection(db.PositionsCollection).InsertOne(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to insert position: %w", err)
	}

	return &position, nil
}

// DeleteThought soft-deletes; the row stays for reply trees and audit.
func DeleteThought(ctx context.Context, thoughtID, callerID primitive.ObjectID) error {
	result, err := db.GetCollection(db.ThoughtsCollection).UpdateOne(ctx,
		bson.M{"_id": thoughtID, "authorId": callerID, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func toDefinitions(payload []structs.DefinitionPayload) []models.Definition {
	definitions := make([]models.Definition, 0, len(payload))
	for _, d := range payload {
		definitions = append(definitions, models.Definition{Term: d.Term, Definition: d.Definition})
	}
	return definitions
}
