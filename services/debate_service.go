package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agorahall/config"
	"agorahall/db"
	"agorahall/engine"
	"agorahall/internal/changefeed"
	"agorahall/models"
	"agorahall/structs"
)

var (
	maxRounds       = 10
	openingMaxWords = 2500
	feed            = changefeed.NewStore()
)

// InitDebateService captures the limits the lifecycle enforces.
func InitDebateService(cfg *config.Config) {
	maxRounds = cfg.Limits.MaxRounds
	openingMaxWords = cfg.Limits.OpeningMaxWords
}

// DebateAggregate is the full read model for one debate: the row, its turn
// log in display order, the anchoring position, and the vote tally.
type DebateAggregate struct {
	Debate   models.Debate       `json:"debate"`
	Turns    []models.DebateTurn `json:"turns"`
	Position *models.Position    `json:"position,omitempty"`
	Votes    models.VoteTally    `json:"votes"`
}

func getDebate(ctx context.Context, debateID primitive.ObjectID) (*models.Debate, error) {
	var debate models.Debate
	err := db.GetCollection(db.DebatesCollection).FindOne(ctx, bson.M{"_id": debateID}).Decode(&debate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load debate: %w", err)
	}
	return &debate, nil
}

func listTurns(ctx context.Context, debateID primitive.ObjectID) ([]models.DebateTurn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := db.GetCollection(db.DebateTurnsCollection).Find(ctx, bson.M{"debateId": debateID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	defer cursor.Close(ctx)

	turns := []models.DebateTurn{}
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode turns: %w", err)
	}
	return turns, nil
}

func getPosition(ctx context.Context, positionID primitive.ObjectID) (*models.Position, error) {
	var position models.Position
	err := db.GetCollection(db.PositionsCollection).FindOne(ctx, bson.M{"_id": positionID}).Decode(&position)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load position: %w", err)
	}
	return &position, nil
}

// updateDoc translates a typed engine update into a $set document. Only
// fields the transition produced are touched.
func updateDoc(u engine.DebateUpdate) bson.M {
	set := bson.M{}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.ChallengeStatus != nil {
		set["challengeStatus"] = *u.ChallengeStatus
	}
	if u.NegativeUserID != nil {
		set["negativeUserId"] = *u.NegativeUserID
	}
	if u.CurrentRound != nil {
		set["currentRound"] = *u.CurrentRound
	}
	if u.CurrentTurnProfileID != nil {
		set["currentTurnProfileId"] = *u.CurrentTurnProfileID
	}
	if u.WinnerUserID != nil {
		set["winnerUserId"] = *u.WinnerUserID
	}
	if u.ForfeitedByProfileID != nil {
		set["forfeitedByProfileId"] = *u.ForfeitedByProfileID
	}
	if u.ForfeitReason != nil {
		set["forfeitReason"] = *u.ForfeitReason
	}
	if u.ResolvedAt != nil {
		set["resolvedAt"] = *u.ResolvedAt
	}
	return bson.M{"$set": set}
}

// applyTransition persists an engine result: the turn row first, then the
// debate row behind a conditional update keyed on the state we read. When
// the condition no longer holds another writer won the race; the turn row
// is compensated away and the caller gets ErrConflict to reload and retry.
func applyTransition(ctx context.Context, prev *models.Debate, result engine.Result, actorID primitive.ObjectID) error {
	var turnID primitive.ObjectID
	if result.Turn != nil {
		result.Turn.ID = primitive.NewObjectID()
		result.Turn.DebateID = prev.ID
		turnID = result.Turn.ID
		if _, err := db.GetCollection(db.DebateTurnsCollection).InsertOne(ctx, result.Turn); err != nil {
			return fmt.Errorf("failed to append turn: %w", err)
		}
	}

	filter := bson.M{
		"_id":                  prev.ID,
		"status":               prev.Status,
		"challengeStatus":      prev.ChallengeStatus,
		"currentRound":         prev.CurrentRound,
		"currentTurnProfileId": prev.CurrentTurnProfileID,
	}
	updateResult, err := db.GetCollection(db.DebatesCollection).UpdateOne(ctx, filter, updateDoc(result.Update))
	if err != nil {
		compensateTurn(ctx, turnID)
		return fmt.Errorf("failed to update debate: %w", err)
	}
	if updateResult.MatchedCount == 0 {
		compensateTurn(ctx, turnID)
		return ErrConflict
	}

	fanOut(ctx, prev, actorID, result.Notices)
	bumpFeed(prev.ID)
	return nil
}

// compensateTurn removes a turn whose debate update lost a race, so the
// append-only log never shows a turn the debate row doesn't account for.
func compensateTurn(ctx context.Context, turnID primitive.ObjectID) {
	if turnID.IsZero() {
		return
	}
	if _, err := db.GetCollection(db.DebateTurnsCollection).DeleteOne(ctx, bson.M{"_id": turnID}); err != nil {
		log.Printf("Failed to compensate turn %s after lost race: %v", turnID.Hex(), err)
	}
}

// fanOut persists the transition's notifications. Best-effort, and never to
// the user who acted.
func fanOut(ctx context.Context, debate *models.Debate, actorID primitive.ObjectID, notices []engine.Notice) {
	for _, notice := range notices {
		if notice.RecipientID.IsZero() || notice.RecipientID == actorID {
			continue
		}
		notifyBestEffort(ctx, models.Notification{
			RecipientID: notice.RecipientID,
			Type:        notice.Type,
			DebateID:    &debate.ID,
			PositionID:  &debate.PositionID,
			Data:        notice.Data,
		})
	}
}

func bumpFeed(debateID primitive.ObjectID) {
	if _, err := feed.Bump(debateID.Hex()); err != nil && err != changefeed.ErrUnavailable {
		log.Printf("Failed to bump change feed for debate %s: %v", debateID.Hex(), err)
	}
}

// CreateChallenge opens a pending debate against the author of a position.
func CreateChallenge(ctx context.Context, positionID, callerID primitive.ObjectID, req structs.CreateChallengeRequest) (*models.Debate, error) {
	position, err := getPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}

	definitions := toDefinitions(req.Definitions)
	debate, turn, notices, err := engine.NewChallenge(positionID, callerID, position.AuthorID, req.Opening, req.OpposingPosition, definitions, maxRounds, openingMaxWords, time.Now())
	if err != nil {
		return nil, err
	}

	debate.ID = primitive.NewObjectID()
	if _, err := db.GetCollection(db.DebatesCollection).InsertOne(ctx, debate); err != nil {
		return nil, fmt.Errorf("failed to insert debate: %w", err)
	}

	turn.ID = primitive.NewObjectID()
	turn.DebateID = debate.ID
	if _, err := db.GetCollection(db.DebateTurnsCollection).InsertOne(ctx, turn); err != nil {
		// A challenge without its opening is useless; take the debate row
		// back out so the challenge can be retried cleanly.
		if _, delErr := db.GetCollection(db.DebatesCollection).DeleteOne(ctx, bson.M{"_id": debate.ID}); delErr != nil {
			log.Printf("Failed to remove debate %s after turn insert failure: %v", debate.ID.Hex(), delErr)
		}
		return nil, fmt.Errorf("failed to insert opening turn: %w", err)
	}

	fanOut(ctx, &debate, callerID, notices)
	bumpFeed(debate.ID)
	return &debate, nil
}

// StartOpenDebate opens an "accept anyone" debate on a position.
func StartOpenDebate(ctx context.Context, positionID, callerID primitive.ObjectID) (*models.Debate, error) {
	if _, err := getPosition(ctx, positionID); err != nil {
		return nil, err
	}

	debate := engine.NewOpenDebate(positionID, callerID, maxRounds, time.Now())
	debate.ID = primitive.NewObjectID()
	if _, err := db.GetCollection(db.DebatesCollection).InsertOne(ctx, debate); err != nil {
		return nil, fmt.Errorf("failed to insert debate: %w", err)
	}

	bumpFeed(debate.ID)
	return &debate, nil
}

// JoinDebate binds the caller as respondent of an open debate.
func JoinDebate(ctx context.Context, debateID, callerID primitive.ObjectID, opening string) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}

	result, err := engine.BindRespondent(debate, callerID, opening, openingMaxWords, time.Now())
	if err != nil {
		return nil, err
	}
	if err := applyTransition(ctx, debate, result, callerID); err != nil {
		return nil, err
	}
	return GetDebate(ctx, debateID)
}

// AcceptChallenge activates a pending debate.
func AcceptChallenge(ctx context.Context, debateID, callerID primitive.ObjectID, opening string) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if !debate.Participant(callerID) {
		return nil, engine.ErrNotParticipant
	}

	result, err := engine.AcceptChallenge(debate, callerID, opening, openingMaxWords, time.Now())
	if err != nil {
		return nil, err
	}
	if err := applyTransition(ctx, debate, result, callerID); err != nil {
		return nil, err
	}
	return GetDebate(ctx, debateID)
}

// RejectChallenge marks a pending challenge rejected.
func RejectChallenge(ctx context.Context, debateID, callerID primitive.ObjectID) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if !debate.Participant(callerID) {
		return nil, engine.ErrNotParticipant
	}

	result, err := engine.RejectChallenge(debate, callerID)
	if err != nil {
		return nil, err
	}
	if err := applyTransition(ctx, debate, result, callerID); err != nil {
		return nil, err
	}
	return GetDebate(ctx, debateID)
}

// SubmitTurn appends one alternating-round turn. Round position and the
// turn pointer are re-derived from stored state, never trusted from the
// client.
func SubmitTurn(ctx context.Context, debateID, callerID primitive.ObjectID, content string) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if !debate.Participant(callerID) {
		return nil, engine.ErrNotParticipant
	}
	turns, err := listTurns(ctx, debateID)
	if err != nil {
		return nil, err
	}

	result, err := engine.SubmitRoundTurn(debate, turns, callerID, content, time.Now())
	if err != nil {
		return nil, err
	}
	if err := applyTransition(ctx, debate, result, callerID); err != nil {
		return nil, err
	}
	return GetDebate(ctx, debateID)
}

// SubmitClosing appends a closing statement; the second one resolves the
// debate with no winner.
func SubmitClosing(ctx context.Context, debateID, callerID primitive.ObjectID, content string) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if !debate.Participant(callerID) {
		return nil, engine.ErrNotParticipant
	}
	turns, err := listTurns(ctx, debateID)
	if err != nil {
		return nil, err
	}

	result, err := engine.SubmitClosing(debate, turns, callerID, content, time.Now())
	if err != nil {
		return nil, err
	}
	if err := applyTransition(ctx, debate, result, callerID); err != nil {
		return nil, err
	}
	return GetDebate(ctx, debateID)
}

// Forfeit resolves the debate in the opponent's favor.
func Forfeit(ctx context.Context, debateID, callerID primitive.ObjectID) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if !debate.Participant(callerID) {
		return nil, engine.ErrNotParticipant
	}

	result, err := engine.Forfeit(debate, callerID, time.Now())
	if err != nil {
		return nil, err
	}
	if err := applyTransition(ctx, debate, result, callerID); err != nil {
		return nil, err
	}
	return GetDebate(ctx, debateID)
}

// CastVote upserts the voter's row, then recomputes the tally by replaying
// every vote row so the displayed counts can never drift from storage.
func CastVote(ctx context.Context, debateID, voterID primitive.ObjectID, side string) (models.VoteTally, error) {
	if !engine.ValidSide(side) {
		return models.VoteTally{}, engine.ErrInvalidSide
	}
	if _, err := getDebate(ctx, debateID); err != nil {
		return models.VoteTally{}, err
	}

	now := time.Now()
	filter := bson.M{"debateId": debateID, "voterProfileId": voterID}
	update := bson.M{
		"$set":         bson.M{"side": side, "updatedAt": now},
		"$setOnInsert": bson.M{"debateId": debateID, "voterProfileId": voterID, "createdAt": now},
	}
	_, err := db.GetCollection(db.VotesCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return models.VoteTally{}, fmt.Errorf("failed to upsert vote: %w", err)
	}

	cursor, err := db.GetCollection(db.VotesCollection).Find(ctx, bson.M{"debateId": debateID})
	if err != nil {
		return models.VoteTally{}, fmt.Errorf("failed to load votes: %w", err)
	}
	defer cursor.Close(ctx)

	var votes []models.Vote
	if err := cursor.All(ctx, &votes); err != nil {
		return models.VoteTally{}, fmt.Errorf("failed to decode votes: %w", err)
	}

	tally := engine.Tally(votes)
	_, err = db.GetCollection(db.DebatesCollection).UpdateOne(ctx,
		bson.M{"_id": debateID},
		bson.M{"$set": bson.M{"votes": tally}},
	)
	if err != nil {
		return models.VoteTally{}, fmt.Errorf("failed to store tally: %w", err)
	}

	bumpFeed(debateID)
	return tally, nil
}

// GetDebate assembles the debate aggregate with its turn log in display
// order.
func GetDebate(ctx context.Context, debateID primitive.ObjectID) (*DebateAggregate, error) {
	debate, err := getDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	turns, err := listTurns(ctx, debateID)
	if err != nil {
		return nil, err
	}

	aggregate := &DebateAggregate{
		Debate: *debate,
		Turns:  engine.SortTurns(turns),
		Votes:  debate.Votes,
	}
	if position, err := getPosition(ctx, debate.PositionID); err == nil {
		aggregate.Position = position
	}
	return aggregate, nil
}

// ListDebatesForPosition returns the debates anchored on a position, newest
// first.
func ListDebatesForPosition(ctx context.Context, positionID primitive.ObjectID) ([]models.Debate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.GetCollection(db.DebatesCollection).Find(ctx, bson.M{"positionId": positionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load debates: %w", err)
	}
	defer cursor.Close(ctx)

	debates := []models.Debate{}
	if err := cursor.All(ctx, &debates); err != nil {
		return nil, fmt.Errorf("failed to decode debates: %w", err)
	}
	return debates, nil
}

// DebateChangedSince answers a poll: has this debate changed relative to
// the client's token.
func DebateChangedSince(debateID primitive.ObjectID, token string) (bool, string, error) {
	return feed.ChangedSince(debateID.Hex(), token)
}
