// Package engine holds the debate turn-order and lifecycle transition
// functions. Every function here is pure: it reads the debate and its turn
// log, validates the incoming action, and returns a typed update command
// plus the turn to append and the notifications to emit. Persistence and
// fan-out are the orchestrator's job (services.DebateService).
package engine

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agorahall/models"
)

// Notice describes a notification a transition wants delivered. The
// orchestrator attaches the debate id and drops notices addressed to the
// acting user before persisting.
type Notice struct {
	RecipientID primitive.ObjectID
	Type        string
	Data        map[string]string
}

// DebateUpdate is an explicit update command: only the fields a transition
// is allowed to touch, nil meaning "leave unchanged". CurrentTurnProfileID
// and WinnerUserID use the nil ObjectID to mean "clear".
type DebateUpdate struct {
	Status               *string
	ChallengeStatus      *string
	NegativeUserID       *primitive.ObjectID
	CurrentRound         *int
	CurrentTurnProfileID *primitive.ObjectID
	WinnerUserID         *primitive.ObjectID
	ForfeitedByProfileID *primitive.ObjectID
	ForfeitReason        *string
	ResolvedAt           *time.Time
}

// Result is the full outcome of a successful transition.
type Result struct {
	Update  DebateUpdate
	Turn    *models.DebateTurn
	Notices []Notice
}

func strPtr(s string) *string                         { return &s }
func intPtr(i int) *int                               { return &i }
func idPtr(id primitive.ObjectID) *primitive.ObjectID { return &id }
func timePtr(t time.Time) *time.Time                  { return &t }

// WordCount counts whitespace-separated words, the unit of the opening cap.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func validateContent(text string, maxWords int) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyContent
	}
	if maxWords > 0 && WordCount(text) > maxWords {
		return ErrContentTooLong
	}
	return nil
}

// NewChallenge builds a pending debate: the initiator challenges the
// respondent over a position, supplying an opening statement. The respondent
// owes the next action (accept or reject), so the turn pointer starts on
// them.
func NewChallenge(positionID, initiatorID, respondentID primitive.ObjectID, opening, opposingPosition string, definitions []models.Definition, maxRounds, maxWords int, now time.Time) (models.Debate, models.DebateTurn, []Notice, error) {
	if respondentID == initiatorID {
		return models.Debate{}, models.DebateTurn{}, nil, ErrSelfChallenge
	}
	if err := validateContent(opening, maxWords); err != nil {
		return models.Debate{}, models.DebateTurn{}, nil, err
	}

	debate := models.Debate{
		PositionID:           positionID,
		AffirmativeUserID:    initiatorID,
		NegativeUserID:       respondentID,
		Status:               models.DebateStatusPending,
		ChallengeStatus:      models.ChallengePending,
		OpposingPosition:     opposingPosition,
		ChallengeDefinitions: definitions,
		MaxRounds:            maxRounds,
		CurrentRound:         0,
		CurrentTurnProfileID: respondentID,
		CreatedAt:            now,
	}
	turn := models.DebateTurn{
		AuthorID:  initiatorID,
		Kind:      models.TurnKindOpening,
		Content:   opening,
		CreatedAt: now,
	}
	notices := []Notice{
		{RecipientID: respondentID, Type: models.NotificationNewChallenge},
		{RecipientID: respondentID, Type: models.NotificationNewTurn},
	}
	return debate, turn, notices, nil
}

// NewOpenDebate builds an "accept anyone" debate: active immediately, no
// opponent bound and no turn-order enforced until someone joins.
func NewOpenDebate(positionID, initiatorID primitive.ObjectID, maxRounds int, now time.Time) models.Debate {
	return models.Debate{
		PositionID:        positionID,
		AffirmativeUserID: initiatorID,
		Status:            models.DebateStatusActive,
		ChallengeStatus:   models.ChallengeAccepted,
		MaxRounds:         maxRounds,
		CurrentRound:      0,
		CreatedAt:         now,
	}
}

// BindRespondent joins an open debate. The joiner supplies their opening and
// becomes the negative side; the challenger then opens round one.
func BindRespondent(d *models.Debate, callerID primitive.ObjectID, opening string, maxWords int, now time.Time) (Result, error) {
	if d.Status != models.DebateStatusActive || !d.NegativeUserID.IsZero() {
		return Result{}, ErrInvalidState
	}
	if callerID == d.AffirmativeUserID {
		return Result{}, ErrSelfChallenge
	}
	if err := validateContent(opening, maxWords); err != nil {
		return Result{}, err
	}

	return Result{
		Update: DebateUpdate{
			NegativeUserID:       idPtr(callerID),
			CurrentTurnProfileID: idPtr(d.AffirmativeUserID),
		},
		Turn: &models.DebateTurn{
			AuthorID:  callerID,
			Kind:      models.TurnKindOpening,
			Content:   opening,
			CreatedAt: now,
		},
		Notices: []Notice{
			{RecipientID: d.AffirmativeUserID, Type: models.NotificationNewTurn},
		},
	}, nil
}

// AcceptChallenge transitions a pending debate to active. Only the
// respondent may accept, and they must provide their own opening. The
// challenger always takes the first round turn.
func AcceptChallenge(d *models.Debate, callerID primitive.ObjectID, opening string, maxWords int, now time.Time) (Result, error) {
	// A forfeited challenge is resolved but its challengeStatus stays
	// pending, so the status check is what keeps it from coming back.
	if d.Status != models.DebateStatusPending || d.ChallengeStatus != models.ChallengePending {
		return Result{}, ErrInvalidState
	}
	if !d.Participant(callerID) {
		return Result{}, ErrNotParticipant
	}
	if callerID != d.NegativeUserID {
		return Result{}, ErrNotRespondent
	}
	if err := validateContent(opening, maxWords); err != nil {
		return Result{}, err
	}

	return Result{
		Update: DebateUpdate{
			Status:               strPtr(models.DebateStatusActive),
			ChallengeStatus:      strPtr(models.ChallengeAccepted),
			CurrentRound:         intPtr(0),
			CurrentTurnProfileID: idPtr(d.AffirmativeUserID),
		},
		Turn: &models.DebateTurn{
			AuthorID:  callerID,
			Kind:      models.TurnKindOpening,
			Content:   opening,
			CreatedAt: now,
		},
		Notices: []Notice{
			{RecipientID: d.AffirmativeUserID, Type: models.NotificationNewTurn},
		},
	}, nil
}

// RejectChallenge marks a pending challenge rejected. The debate stays inert
// afterwards: not active, not resolved, no further transitions.
func RejectChallenge(d *models.Debate, callerID primitive.ObjectID) (Result, error) {
	if d.Status != models.DebateStatusPending || d.ChallengeStatus != models.ChallengePending {
		return Result{}, ErrInvalidState
	}
	if !d.Participant(callerID) {
		return Result{}, ErrNotParticipant
	}
	if callerID != d.NegativeUserID {
		return Result{}, ErrNotRespondent
	}

	return Result{
		Update: DebateUpdate{
			ChallengeStatus:      strPtr(models.ChallengeRejected),
			CurrentTurnProfileID: idPtr(primitive.NilObjectID),
		},
	}, nil
}

// roundAuthors collects the distinct authors of round-kind turns at the
// given round number.
func roundAuthors(turns []models.DebateTurn, roundNumber int) map[primitive.ObjectID]struct{} {
	authors := make(map[primitive.ObjectID]struct{})
	for _, t := range turns {
		if t.Kind == models.TurnKindRound && t.RoundNumber == roundNumber {
			authors[t.AuthorID] = struct{}{}
		}
	}
	return authors
}

// SubmitRoundTurn validates and applies one alternating-round submission.
// The round counter only advances once both sides have spoken in the round;
// after it advances, the challenger speaks first again. Once the counter
// reaches the round cap the turn pointer rests on the challenger and only
// closings are accepted.
func SubmitRoundTurn(d *models.Debate, turns []models.DebateTurn, callerID primitive.ObjectID, text string, now time.Time) (Result, error) {
	if d.Status != models.DebateStatusActive || d.ChallengeStatus != models.ChallengeAccepted {
		return Result{}, ErrInvalidState
	}
	if d.NegativeUserID.IsZero() {
		return Result{}, ErrNoOpponent
	}
	if !d.Participant(callerID) {
		return Result{}, ErrNotParticipant
	}
	if d.CurrentRound >= d.MaxRounds {
		return Result{}, ErrRoundLimit
	}
	if callerID != d.CurrentTurnProfileID {
		return Result{}, ErrNotYourTurn
	}
	if err := validateContent(text, 0); err != nil {
		return Result{}, err
	}

	roundNumber := d.CurrentRound + 1
	authors := roundAuthors(turns, roundNumber)
	authors[callerID] = struct{}{}
	_, affSpoke := authors[d.AffirmativeUserID]
	_, negSpoke := authors[d.NegativeUserID]

	update := DebateUpdate{}
	if affSpoke && negSpoke {
		// Round complete: advance the counter and hand the next round
		// (or the closing phase) to the challenger.
		update.CurrentRound = intPtr(roundNumber)
		update.CurrentTurnProfileID = idPtr(d.AffirmativeUserID)
	} else {
		update.CurrentTurnProfileID = idPtr(d.Opponent(callerID))
	}

	return Result{
		Update: update,
		Turn: &models.DebateTurn{
			AuthorID:    callerID,
			Kind:        models.TurnKindRound,
			RoundNumber: roundNumber,
			Content:     text,
			CreatedAt:   now,
		},
		Notices: []Notice{
			{RecipientID: d.Opponent(callerID), Type: models.NotificationNewTurn},
		},
	}, nil
}

// SubmitClosing accepts one closing statement per side once the round cap is
// reached. The challenger closes first; the challengee's closing resolves
// the debate. Resolution by closings assigns no winner.
func SubmitClosing(d *models.Debate, turns []models.DebateTurn, callerID primitive.ObjectID, text string, now time.Time) (Result, error) {
	if d.Status != models.DebateStatusActive || d.CurrentRound < d.MaxRounds {
		return Result{}, ErrInvalidState
	}
	if !d.Participant(callerID) {
		return Result{}, ErrNotParticipant
	}
	if !d.CurrentTurnProfileID.IsZero() && callerID != d.CurrentTurnProfileID {
		return Result{}, ErrNotYourTurn
	}
	if err := validateContent(text, 0); err != nil {
		return Result{}, err
	}

	closings := 0
	for _, t := range turns {
		if t.Kind == models.TurnKindClosing {
			closings++
		}
	}

	turn := &models.DebateTurn{
		AuthorID:  callerID,
		Kind:      models.TurnKindClosing,
		Content:   text,
		CreatedAt: now,
	}

	switch closings {
	case 0:
		return Result{
			Update: DebateUpdate{
				CurrentTurnProfileID: idPtr(d.NegativeUserID),
			},
			Turn: turn,
			Notices: []Notice{
				{RecipientID: d.Opponent(callerID), Type: models.NotificationNewTurn},
			},
		}, nil
	case 1:
		return Result{
			Update: DebateUpdate{
				Status:               strPtr(models.DebateStatusResolved),
				CurrentTurnProfileID: idPtr(primitive.NilObjectID),
				ResolvedAt:           timePtr(now),
			},
			Turn: turn,
			Notices: []Notice{
				{RecipientID: d.AffirmativeUserID, Type: models.NotificationDebateCompleted},
				{RecipientID: d.NegativeUserID, Type: models.NotificationDebateCompleted},
			},
		}, nil
	default:
		return Result{}, ErrInvalidState
	}
}

// Forfeit resolves the debate immediately, awarding the win to the other
// participant. Valid from any non-terminal state.
func Forfeit(d *models.Debate, callerID primitive.ObjectID, now time.Time) (Result, error) {
	if d.Status == models.DebateStatusResolved || d.ChallengeStatus == models.ChallengeRejected {
		return Result{}, ErrInvalidState
	}
	if !d.Participant(callerID) {
		return Result{}, ErrNotParticipant
	}

	winner := d.Opponent(callerID)
	update := DebateUpdate{
		Status:               strPtr(models.DebateStatusResolved),
		CurrentTurnProfileID: idPtr(primitive.NilObjectID),
		ForfeitedByProfileID: idPtr(callerID),
		ForfeitReason:        strPtr(models.ForfeitReason),
		ResolvedAt:           timePtr(now),
	}
	notices := []Notice{
		{RecipientID: d.AffirmativeUserID, Type: models.NotificationDebateCompleted},
	}
	if !winner.IsZero() {
		update.WinnerUserID = idPtr(winner)
	}
	if !d.NegativeUserID.IsZero() {
		notices = append(notices, Notice{RecipientID: d.NegativeUserID, Type: models.NotificationDebateCompleted})
	}

	return Result{Update: update, Notices: notices}, nil
}

// ValidSide reports whether side is one of the three vote buckets.
func ValidSide(side string) bool {
	switch side {
	case models.VoteSideChallenger, models.VoteSideChallengee, models.VoteSideNeither:
		return true
	}
	return false
}

// Tally recomputes the aggregate counts by replaying every vote row.
// Replaying rather than incrementing keeps a changed vote from double
// counting: the row's latest side is the only one counted.
func Tally(votes []models.Vote) models.VoteTally {
	var tally models.VoteTally
	for _, v := range votes {
		switch v.Side {
		case models.VoteSideChallenger:
			tally.Challenger++
		case models.VoteSideChallengee:
			tally.Challengee++
		case models.VoteSideNeither:
			tally.Neither++
		}
	}
	return tally
}

func kindRank(kind string) int {
	switch kind {
	case models.TurnKindOpening:
		return 0
	case models.TurnKindRound:
		return 1
	case models.TurnKindClosing:
		return 2
	}
	return 3
}

// SortTurns orders a turn log for display: openings by creation time, then
// rounds by round number, then closings by creation time. Storage insertion
// order is only a tie-break.
func SortTurns(turns []models.DebateTurn) []models.DebateTurn {
	sorted := make([]models.DebateTurn, len(turns))
	copy(sorted, turns)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if kindRank(a.Kind) != kindRank(b.Kind) {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}
		if a.Kind == models.TurnKindRound && a.RoundNumber != b.RoundNumber {
			return a.RoundNumber < b.RoundNumber
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return sorted
}
