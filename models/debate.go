package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Debate status values
const (
	DebateStatusPending  = "pending"
	DebateStatusActive   = "active"
	DebateStatusResolved = "resolved"
)

// Challenge status values, meaningful before the debate goes active. A
// rejected challenge is terminal but is not counted as resolved.
const (
	ChallengePending  = "pending"
	ChallengeAccepted = "accepted"
	ChallengeRejected = "rejected"
)

// Turn kinds
const (
	TurnKindOpening = "opening"
	TurnKindRound   = "round"
	TurnKindClosing = "closing"
)

// Vote sides
const (
	VoteSideChallenger = "challenger"
	VoteSideChallengee = "challengee"
	VoteSideNeither    = "neither"
)

// ForfeitReason is the only resolution reason recorded today.
const ForfeitReason = "forfeit"

// VoteTally aggregates the vote rows for a debate.
type VoteTally struct {
	Challenger int `bson:"challenger" json:"challenger"`
	Challengee int `bson:"challengee" json:"challengee"`
	Neither    int `bson:"neither" json:"neither"`
}

// Debate is the central stateful record. AffirmativeUserID is the
// initiator/challenger; NegativeUserID the respondent, nil-ObjectID while an
// open debate awaits an opponent. While active and under the round cap,
// CurrentTurnProfileID is always one of the two participants.
type Debate struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PositionID           primitive.ObjectID `bson:"positionId" json:"positionId"`
	AffirmativeUserID    primitive.ObjectID `bson:"affirmativeUserId" json:"affirmativeUserId"`
	NegativeUserID       primitive.ObjectID `bson:"negativeUserId,omitempty" json:"negativeUserId,omitempty"`
	Status               string             `bson:"status" json:"status"`
	ChallengeStatus      string             `bson:"challengeStatus" json:"challengeStatus"`
	OpposingPosition     string             `bson:"opposingPosition,omitempty" json:"opposingPosition,omitempty"`
	ChallengeDefinitions []Definition       `bson:"challengeDefinitions,omitempty" json:"challengeDefinitions,omitempty"`
	MaxRounds            int                `bson:"maxRounds" json:"maxRounds"`
	CurrentRound         int                `bson:"currentRound" json:"currentRound"`
	CurrentTurnProfileID primitive.ObjectID `bson:"currentTurnProfileId" json:"currentTurnProfileId,omitempty"`
	WinnerUserID         primitive.ObjectID `bson:"winnerUserId,omitempty" json:"winnerUserId,omitempty"`
	ForfeitedByProfileID primitive.ObjectID `bson:"forfeitedByProfileId,omitempty" json:"forfeitedByProfileId,omitempty"`
	ForfeitReason        string             `bson:"forfeitReason,omitempty" json:"forfeitReason,omitempty"`
	Votes                VoteTally          `bson:"votes" json:"votes"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	ResolvedAt           *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// Participant reports whether userID is one of the two debaters.
func (d *Debate) Participant(userID primitive.ObjectID) bool {
	return userID == d.AffirmativeUserID || (!d.NegativeUserID.IsZero() && userID == d.NegativeUserID)
}

// Opponent returns the other participant, or the nil ObjectID when userID is
// not a participant or no opponent is bound yet.
func (d *Debate) Opponent(userID primitive.ObjectID) primitive.ObjectID {
	switch userID {
	case d.AffirmativeUserID:
		return d.NegativeUserID
	case d.NegativeUserID:
		return d.AffirmativeUserID
	}
	return primitive.NilObjectID
}

// InClosingPhase reports whether all rounds are exhausted and only closing
// statements remain.
func (d *Debate) InClosingPhase() bool {
	return d.Status == DebateStatusActive && d.CurrentRound >= d.MaxRounds
}

// DebateTurn is one entry in a debate's append-only turn log. RoundNumber is
// meaningful only for round-kind turns.
type DebateTurn struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DebateID    primitive.ObjectID `bson:"debateId" json:"debateId"`
	AuthorID    primitive.ObjectID `bson:"authorId" json:"authorId"`
	Kind        string             `bson:"kind" json:"kind"`
	RoundNumber int                `bson:"roundNumber,omitempty" json:"roundNumber,omitempty"`
	Content     string             `bson:"content" json:"content"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Vote is one row per (debateId, voterProfileId); re-voting replaces Side.
type Vote struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DebateID       primitive.ObjectID `bson:"debateId" json:"debateId"`
	VoterProfileID primitive.ObjectID `bson:"voterProfileId" json:"voterProfileId"`
	Side           string             `bson:"side" json:"side"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
