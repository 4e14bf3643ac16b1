package services

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agorahall/db"
	"agorahall/models"
)

// ThoughtFeedPage is one page of the home feed.
type ThoughtFeedPage struct {
	Thoughts []models.Thought `json:"thoughts"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// activeThoughtFilter matches root thoughts still in the feed: not promoted
// into a position, not deleted.
func activeThoughtFilter() bson.M {
	return bson.M{"isPromoted": false, "isDeleted": false, "depth": 0}
}

// ThoughtFeed returns root thoughts newest first. Promoted and deleted
// thoughts drop out of the feed but stay in storage.
func ThoughtFeed(ctx context.Context, page, limit int) (*ThoughtFeedPage, error) {
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit

	collection := db.GetCollection(db.ThoughtsCollection)
	total, err := collection.CountDocuments(ctx, activeThoughtFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to count thoughts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))
	cursor, err := collection.Find(ctx, activeThoughtFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thoughts: %w", err)
	}
	defer cursor.Close(ctx)

	thoughts := []models.Thought{}
	if err := cursor.All(ctx, &thoughts); err != nil {
		return nil, fmt.Errorf("failed to decode thoughts: %w", err)
	}

	return &ThoughtFeedPage{Thoughts: thoughts, Total: total, Page: page, Limit: limit}, nil
}

// ThoughtThread returns a reply tree in creation order: the root first,
// replies after, ordered by depth then time.
func ThoughtThread(ctx context.Context, rootID primitive.ObjectID) ([]models.Thought, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "depth", Value: 1},
		{Key: "createdAt", Value: 1},
	})
	cursor, err := db.GetCollection(db.ThoughtsCollection).Find(ctx, bson.M{
		"rootThoughtId": rootID,
		"isDeleted":     false,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}
	defer cursor.Close(ctx)

	thread := []models.Thought{}
	if err := cursor.All(ctx, &thread); err != nil {
		return nil, fmt.Errorf("failed to decode thread: %w", err)
	}
	if len(thread) == 0 {
		return nil, ErrNotFound
	}
	return thread, nil
}

// PositionActivity pairs a position with the engagement used to rank the
// explore page.
type PositionActivity struct {
	Position      models.Position `json:"position"`
	CategoryLabel string          `json:"categoryLabel"`
	DebateCount   int64           `json:"debateCount"`
	VoteVolume    int64           `json:"voteVolume"`
}

// MoreActive orders explore entries: more debates first, vote volume as the
// tie-break, then recency.
func MoreActive(a, b PositionActivity) bool {
	if a.DebateCount != b.DebateCount {
		return a.DebateCount > b.DebateCount
	}
	if a.VoteVolume != b.VoteVolume {
		return a.VoteVolume > b.VoteVolume
	}
	return a.Position.CreatedAt.After(b.Position.CreatedAt)
}

// ExplorePositions ranks recent positions by debate activity.
func ExplorePositions(ctx context.Context, limit int) ([]PositionActivity, error) {
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(200)
	cursor, err := db.GetCollection(db.PositionsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	defer cursor.Close(ctx)

	var positions []models.Position
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}

	entries := make([]PositionActivity, 0, len(positions))
	for _, position := range positions {
		debateCount, err := db.GetCollection(db.DebatesCollection).CountDocuments(ctx, bson.M{"positionId": position.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to count debates: %w", err)
		}

		var voteVolume int64
		debateCursor, err := db.GetCollection(db.DebatesCollection).Find(ctx, bson.M{"positionId": position.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch debates: %w", err)
		}
		var debates []models.Debate
		if err := debateCursor.All(ctx, &debates); err != nil {
			return nil, fmt.Errorf("failed to decode debates: %w", err)
		}
		for _, d := range debates {
			voteVolume += int64(d.Votes.Challenger + d.Votes.Challengee + d.Votes.Neither)
		}

		entries = append(entries, PositionActivity{
			Position:      position,
			CategoryLabel: models.CategoryLabel(position.Category),
			DebateCount:   debateCount,
			VoteVolume:    voteVolume,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return MoreActive(entries[i], entries[j]) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ProfileStats summarizes a member's activity for their profile page.
type ProfileStats struct {
	Thoughts    int64 `json:"thoughts"`
	Positions   int64 `json:"positions"`
	Debates     int64 `json:"debates"`
	DebatesWon  int64 `json:"debatesWon"`
	VotesCast   int64 `json:"votesCast"`
	Unpersuaded int64 `json:"debatesForfeited"`
}

// GetProfileStats projects counts from the stored collections.
func GetProfileStats(ctx context.Context, profileID primitive.ObjectID) (*ProfileStats, error) {
	stats := &ProfileStats{}
	var err error

	stats.Thoughts, err = db.GetCollection(db.ThoughtsCollection).CountDocuments(ctx, bson.M{"authorId": profileID, "isDeleted": false})
	if err != nil {
		return nil, err
	}
	stats.Positions, err = db.GetCollection(db.PositionsCollection).CountDocuments(ctx, bson.M{"authorId": profileID})
	if err != nil {
		return nil, err
	}

	participant := bson.M{"$or": []bson.M{
		{"affirmativeUserId": profileID},
		{"negativeUserId": profileID},
	}}
	stats.Debates, err = db.GetCollection(db.DebatesCollection).CountDocuments(ctx, participant)
	if err != nil {
		return nil, err
	}
	stats.DebatesWon, err = db.GetCollection(db.DebatesCollection).CountDocuments(ctx, bson.M{"winnerUserId": profileID})
	if err != nil {
		return nil, err
	}
	stats.Unpersuaded, err = db.GetCollection(db.DebatesCollection).CountDocuments(ctx, bson.M{"forfeitedByProfileId": profileID})
	if err != nil {
		return nil, err
	}
	stats.VotesCast, err = db.GetCollection(db.VotesCollection).CountDocuments(ctx, bson.M{"voterProfileId": profileID})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
