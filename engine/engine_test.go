package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agorahall/models"
)

var (
	challenger = primitive.NewObjectID()
	challengee = primitive.NewObjectID()
	outsider   = primitive.NewObjectID()
	positionID = primitive.NewObjectID()
)

func now() time.Time {
	return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
}

// applyResult mirrors what the orchestrator persists: the typed update onto
// the debate row and the returned turn onto the log.
func applyResult(d *models.Debate, turns *[]models.DebateTurn, r Result) {
	u := r.Update
	if u.Status != nil {
		d.Status = *u.Status
	}
	if u.ChallengeStatus != nil {
		d.ChallengeStatus = *u.ChallengeStatus
	}
	if u.NegativeUserID != nil {
		d.NegativeUserID = *u.NegativeUserID
	}
	if u.CurrentRound != nil {
		d.CurrentRound = *u.CurrentRound
	}
	if u.CurrentTurnProfileID != nil {
		d.CurrentTurnProfileID = *u.CurrentTurnProfileID
	}
	if u.WinnerUserID != nil {
		d.WinnerUserID = *u.WinnerUserID
	}
	if u.ForfeitedByProfileID != nil {
		d.ForfeitedByProfileID = *u.ForfeitedByProfileID
	}
	if u.ForfeitReason != nil {
		d.ForfeitReason = *u.ForfeitReason
	}
	if u.ResolvedAt != nil {
		d.ResolvedAt = u.ResolvedAt
	}
	if r.Turn != nil {
		*turns = append(*turns, *r.Turn)
	}
}

func newPendingDebate(t *testing.T, maxRounds int) (models.Debate, []models.DebateTurn) {
	t.Helper()
	debate, turn, notices, err := NewChallenge(positionID, challenger, challengee, "Truth is testable.", "", nil, maxRounds, 2500, now())
	if err != nil {
		t.Fatalf("NewChallenge failed: %v", err)
	}
	if len(notices) != 2 {
		t.Fatalf("expected new_challenge and new_turn notices, got %d", len(notices))
	}
	for _, n := range notices {
		if n.RecipientID != challengee {
			t.Errorf("challenge notice addressed to %v, want challengee", n.RecipientID)
		}
	}
	return debate, []models.DebateTurn{turn}
}

func TestNewChallengeRejectsSelfChallenge(t *testing.T) {
	_, _, _, err := NewChallenge(positionID, challenger, challenger, "opening", "", nil, 10, 2500, now())
	if !errors.Is(err, ErrSelfChallenge) {
		t.Errorf("expected ErrSelfChallenge, got %v", err)
	}
}

func TestNewChallengeEnforcesWordLimit(t *testing.T) {
	long := strings.Repeat("word ", 2501)
	_, _, _, err := NewChallenge(positionID, challenger, challengee, long, "", nil, 10, 2500, now())
	if !errors.Is(err, ErrContentTooLong) {
		t.Errorf("expected ErrContentTooLong, got %v", err)
	}

	_, _, _, err = NewChallenge(positionID, challenger, challengee, "   ", "", nil, 10, 2500, now())
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestNewChallengeInitialState(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)

	if debate.Status != models.DebateStatusPending {
		t.Errorf("status = %q, want pending", debate.Status)
	}
	if debate.ChallengeStatus != models.ChallengePending {
		t.Errorf("challengeStatus = %q, want pending", debate.ChallengeStatus)
	}
	if debate.CurrentRound != 0 {
		t.Errorf("currentRound = %d, want 0", debate.CurrentRound)
	}
	if debate.CurrentTurnProfileID != challengee {
		t.Errorf("currentTurnProfileId = %v, want challengee", debate.CurrentTurnProfileID)
	}
	if turns[0].Kind != models.TurnKindOpening || turns[0].AuthorID != challenger {
		t.Errorf("first turn should be the challenger's opening, got %+v", turns[0])
	}
}

// Scenario A: rejected challenge is terminal but not resolved.
func TestRejectedChallengeIsTerminal(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)

	if _, err := RejectChallenge(&debate, challenger); !errors.Is(err, ErrNotRespondent) {
		t.Errorf("challenger rejecting own challenge: got %v, want ErrNotRespondent", err)
	}
	if _, err := RejectChallenge(&debate, outsider); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider rejecting: got %v, want ErrNotParticipant", err)
	}

	res, err := RejectChallenge(&debate, challengee)
	if err != nil {
		t.Fatalf("RejectChallenge failed: %v", err)
	}
	applyResult(&debate, &turns, res)

	if debate.ChallengeStatus != models.ChallengeRejected {
		t.Errorf("challengeStatus = %q, want rejected", debate.ChallengeStatus)
	}
	if debate.Status == models.DebateStatusResolved {
		t.Error("rejected challenge must not count as resolved")
	}
	if !debate.CurrentTurnProfileID.IsZero() {
		t.Error("rejected challenge should owe no turn")
	}

	for _, id := range []primitive.ObjectID{challenger, challengee} {
		if _, err := SubmitRoundTurn(&debate, turns, id, "text", now()); !errors.Is(err, ErrInvalidState) {
			t.Errorf("turn after rejection by %v: got %v, want ErrInvalidState", id, err)
		}
	}
	if _, err := AcceptChallenge(&debate, challengee, "late opening", 2500, now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("accept after rejection: got %v, want ErrInvalidState", err)
	}
}

// Scenario B: two rounds, closings, resolution without a winner.
func TestFullDebateLifecycle(t *testing.T) {
	debate, turns := newPendingDebate(t, 2)

	res, err := AcceptChallenge(&debate, challengee, "Not so fast.", 2500, now())
	if err != nil {
		t.Fatalf("AcceptChallenge failed: %v", err)
	}
	applyResult(&debate, &turns, res)

	if debate.Status != models.DebateStatusActive {
		t.Fatalf("status = %q, want active", debate.Status)
	}
	if debate.CurrentRound != 0 || debate.CurrentTurnProfileID != challenger {
		t.Fatalf("after accept: round=%d turn=%v, want round 0 and challenger's turn", debate.CurrentRound, debate.CurrentTurnProfileID)
	}

	steps := []struct {
		author    primitive.ObjectID
		wantRound int
		wantNext  primitive.ObjectID
	}{
		{challenger, 0, challengee}, // round 1 half done
		{challengee, 1, challenger}, // round 1 complete, challenger reopens
		{challenger, 1, challengee}, // round 2 half done
		{challengee, 2, challenger}, // cap reached, closing phase, challenger first
	}
	for i, step := range steps {
		res, err := SubmitRoundTurn(&debate, turns, step.author, "round text", now().Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("step %d: SubmitRoundTurn failed: %v", i, err)
		}
		applyResult(&debate, &turns, res)

		if debate.CurrentRound != step.wantRound {
			t.Errorf("step %d: currentRound = %d, want %d", i, debate.CurrentRound, step.wantRound)
		}
		if debate.CurrentTurnProfileID != step.wantNext {
			t.Errorf("step %d: currentTurnProfileId = %v, want %v", i, debate.CurrentTurnProfileID, step.wantNext)
		}
		// Invariant: while active and under the cap, the turn pointer is
		// always one of the two participants.
		if debate.Status == models.DebateStatusActive && debate.CurrentRound < debate.MaxRounds {
			if !debate.Participant(debate.CurrentTurnProfileID) {
				t.Errorf("step %d: turn pointer %v is not a participant", i, debate.CurrentTurnProfileID)
			}
		}
		if debate.CurrentRound > debate.MaxRounds {
			t.Errorf("step %d: currentRound %d exceeds maxRounds %d", i, debate.CurrentRound, debate.MaxRounds)
		}
	}

	// Round cap: no more round turns.
	if _, err := SubmitRoundTurn(&debate, turns, challenger, "one more", now()); !errors.Is(err, ErrRoundLimit) {
		t.Errorf("turn past the cap: got %v, want ErrRoundLimit", err)
	}

	// Challengee cannot close first.
	if _, err := SubmitClosing(&debate, turns, challengee, "me first", now()); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("challengee closing first: got %v, want ErrNotYourTurn", err)
	}

	res, err = SubmitClosing(&debate, turns, challenger, "In closing.", now())
	if err != nil {
		t.Fatalf("first closing failed: %v", err)
	}
	applyResult(&debate, &turns, res)
	if debate.CurrentTurnProfileID != challengee {
		t.Errorf("after first closing: turn = %v, want challengee", debate.CurrentTurnProfileID)
	}

	res, err = SubmitClosing(&debate, turns, challengee, "And I rest.", now())
	if err != nil {
		t.Fatalf("second closing failed: %v", err)
	}
	if len(res.Notices) != 2 {
		t.Errorf("second closing emitted %d notices, want debate_completed to both", len(res.Notices))
	}
	for _, n := range res.Notices {
		if n.Type != models.NotificationDebateCompleted {
			t.Errorf("notice type = %q, want debate_completed", n.Type)
		}
	}
	applyResult(&debate, &turns, res)

	if debate.Status != models.DebateStatusResolved {
		t.Errorf("status = %q, want resolved", debate.Status)
	}
	if !debate.CurrentTurnProfileID.IsZero() {
		t.Error("resolved debate should owe no turn")
	}
	if debate.ResolvedAt == nil {
		t.Error("resolvedAt not set")
	}
	if !debate.WinnerUserID.IsZero() {
		t.Error("normal resolution must not assign a winner")
	}

	// No further actions of any kind.
	if _, err := SubmitClosing(&debate, turns, challenger, "again", now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("closing after resolution: got %v, want ErrInvalidState", err)
	}
	if _, err := Forfeit(&debate, challenger, now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("forfeit after resolution: got %v, want ErrInvalidState", err)
	}
}

func TestOutOfTurnSubmissionsRejected(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)
	res, err := AcceptChallenge(&debate, challengee, "opening", 2500, now())
	if err != nil {
		t.Fatalf("AcceptChallenge failed: %v", err)
	}
	applyResult(&debate, &turns, res)

	if _, err := SubmitRoundTurn(&debate, turns, challengee, "cutting in", now()); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out-of-turn submission: got %v, want ErrNotYourTurn", err)
	}
	if _, err := SubmitRoundTurn(&debate, turns, outsider, "heckling", now()); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("non-participant submission: got %v, want ErrNotParticipant", err)
	}
	if debate.CurrentTurnProfileID != challenger {
		t.Error("failed submissions must not move the turn pointer")
	}
}

func TestAcceptChallengeAuthorization(t *testing.T) {
	debate, _ := newPendingDebate(t, 10)

	if _, err := AcceptChallenge(&debate, challenger, "mine", 2500, now()); !errors.Is(err, ErrNotRespondent) {
		t.Errorf("challenger accepting: got %v, want ErrNotRespondent", err)
	}
	if _, err := AcceptChallenge(&debate, outsider, "theirs", 2500, now()); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider accepting: got %v, want ErrNotParticipant", err)
	}
}

// Scenario C: forfeit awards the other side.
func TestForfeitAwardsOpponent(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)
	res, err := AcceptChallenge(&debate, challengee, "opening", 2500, now())
	if err != nil {
		t.Fatalf("AcceptChallenge failed: %v", err)
	}
	applyResult(&debate, &turns, res)

	res, err = Forfeit(&debate, challenger, now())
	if err != nil {
		t.Fatalf("Forfeit failed: %v", err)
	}
	if len(res.Notices) != 2 {
		t.Errorf("forfeit emitted %d notices, want 2", len(res.Notices))
	}
	applyResult(&debate, &turns, res)

	if debate.Status != models.DebateStatusResolved {
		t.Errorf("status = %q, want resolved", debate.Status)
	}
	if debate.WinnerUserID != challengee {
		t.Errorf("winner = %v, want challengee", debate.WinnerUserID)
	}
	if debate.ForfeitedByProfileID != challenger || debate.ForfeitReason != models.ForfeitReason {
		t.Errorf("forfeit bookkeeping wrong: by=%v reason=%q", debate.ForfeitedByProfileID, debate.ForfeitReason)
	}
	if !debate.CurrentTurnProfileID.IsZero() {
		t.Error("forfeited debate should owe no turn")
	}

	if _, err := SubmitRoundTurn(&debate, turns, challengee, "too late", now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("turn after forfeit: got %v, want ErrInvalidState", err)
	}
}

func TestForfeitWhilePending(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)

	res, err := Forfeit(&debate, challenger, now())
	if err != nil {
		t.Fatalf("forfeit of a pending debate failed: %v", err)
	}
	applyResult(&debate, &turns, res)
	if debate.WinnerUserID != challengee {
		t.Errorf("winner = %v, want challengee", debate.WinnerUserID)
	}
}

func TestForfeitedChallengeStaysResolved(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)

	res, err := Forfeit(&debate, challenger, now())
	if err != nil {
		t.Fatalf("forfeit of a pending debate failed: %v", err)
	}
	applyResult(&debate, &turns, res)
	if debate.Status != models.DebateStatusResolved {
		t.Fatalf("status = %q, want resolved", debate.Status)
	}

	// The challenge row still reads pending; nothing may reactivate it.
	if _, err := AcceptChallenge(&debate, challengee, "I accept.", 2500, now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("accept of a forfeited challenge: got %v, want ErrInvalidState", err)
	}
	if _, err := RejectChallenge(&debate, challengee); !errors.Is(err, ErrInvalidState) {
		t.Errorf("reject of a forfeited challenge: got %v, want ErrInvalidState", err)
	}
	if _, err := SubmitRoundTurn(&debate, turns, challengee, "a round", now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("round turn on a forfeited challenge: got %v, want ErrInvalidState", err)
	}
	if _, err := Forfeit(&debate, challengee, now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second forfeit: got %v, want ErrInvalidState", err)
	}

	if debate.Status != models.DebateStatusResolved {
		t.Errorf("status = %q after rejected transitions, want resolved", debate.Status)
	}
	if debate.WinnerUserID != challengee {
		t.Errorf("winner = %v, want challengee", debate.WinnerUserID)
	}
}

func TestForfeitRejectedChallenge(t *testing.T) {
	debate, turns := newPendingDebate(t, 10)
	res, err := RejectChallenge(&debate, challengee)
	if err != nil {
		t.Fatalf("RejectChallenge failed: %v", err)
	}
	applyResult(&debate, &turns, res)

	if _, err := Forfeit(&debate, challenger, now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("forfeit of a rejected challenge: got %v, want ErrInvalidState", err)
	}
}

func TestOpenDebateFlow(t *testing.T) {
	debate := NewOpenDebate(positionID, challenger, 10, now())
	var turns []models.DebateTurn

	if debate.Status != models.DebateStatusActive {
		t.Fatalf("open debate status = %q, want active", debate.Status)
	}
	if !debate.NegativeUserID.IsZero() || !debate.CurrentTurnProfileID.IsZero() {
		t.Fatal("open debate should have no opponent and no turn pointer")
	}

	if _, err := SubmitRoundTurn(&debate, turns, challenger, "talking to myself", now()); !errors.Is(err, ErrNoOpponent) {
		t.Errorf("turn before an opponent joins: got %v, want ErrNoOpponent", err)
	}
	if _, err := BindRespondent(&debate, challenger, "joining my own debate", 2500, now()); !errors.Is(err, ErrSelfChallenge) {
		t.Errorf("self-join: got %v, want ErrSelfChallenge", err)
	}

	res, err := BindRespondent(&debate, challengee, "I will take this up.", 2500, now())
	if err != nil {
		t.Fatalf("BindRespondent failed: %v", err)
	}
	applyResult(&debate, &turns, res)

	if debate.NegativeUserID != challengee {
		t.Errorf("negativeUserId = %v, want joiner", debate.NegativeUserID)
	}
	if debate.CurrentTurnProfileID != challenger {
		t.Errorf("after join: turn = %v, want challenger", debate.CurrentTurnProfileID)
	}
	if _, err := BindRespondent(&debate, outsider, "me too", 2500, now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second join: got %v, want ErrInvalidState", err)
	}

	res, err = SubmitRoundTurn(&debate, turns, challenger, "round one", now())
	if err != nil {
		t.Errorf("turn after binding failed: %v", err)
	} else {
		applyResult(&debate, &turns, res)
	}
}

func TestTallyIdempotenceAndReplacement(t *testing.T) {
	debateID := primitive.NewObjectID()
	voterA := primitive.NewObjectID()
	voterB := primitive.NewObjectID()

	// One row per (debate, voter); re-voting replaces the row's side.
	rows := map[primitive.ObjectID]models.Vote{
		voterA: {DebateID: debateID, VoterProfileID: voterA, Side: models.VoteSideChallenger},
		voterB: {DebateID: debateID, VoterProfileID: voterB, Side: models.VoteSideNeither},
	}
	flatten := func() []models.Vote {
		votes := make([]models.Vote, 0, len(rows))
		for _, v := range rows {
			votes = append(votes, v)
		}
		return votes
	}

	before := Tally(flatten())
	if before.Challenger != 1 || before.Challengee != 0 || before.Neither != 1 {
		t.Fatalf("unexpected baseline tally: %+v", before)
	}

	// Same voter, same side: no change.
	rows[voterA] = models.Vote{DebateID: debateID, VoterProfileID: voterA, Side: models.VoteSideChallenger}
	if after := Tally(flatten()); after != before {
		t.Errorf("re-casting an identical vote changed the tally: %+v -> %+v", before, after)
	}

	// Same voter, new side: one bucket down, another up, total unchanged.
	rows[voterA] = models.Vote{DebateID: debateID, VoterProfileID: voterA, Side: models.VoteSideChallengee}
	after := Tally(flatten())
	if after.Challenger != 0 || after.Challengee != 1 || after.Neither != 1 {
		t.Errorf("vote replacement tallied wrong: %+v", after)
	}
	if before.Challenger+before.Challengee+before.Neither != after.Challenger+after.Challengee+after.Neither {
		t.Error("total votes changed on replacement")
	}
}

func TestValidSide(t *testing.T) {
	for _, side := range []string{models.VoteSideChallenger, models.VoteSideChallengee, models.VoteSideNeither} {
		if !ValidSide(side) {
			t.Errorf("side %q should be valid", side)
		}
	}
	if ValidSide("draw") || ValidSide("") {
		t.Error("unknown sides should be invalid")
	}
}

func TestSortTurnsDisplayOrder(t *testing.T) {
	base := now()
	// Deliberately shuffled insertion order.
	turns := []models.DebateTurn{
		{Kind: models.TurnKindRound, RoundNumber: 2, AuthorID: challenger, CreatedAt: base.Add(4 * time.Minute)},
		{Kind: models.TurnKindClosing, AuthorID: challengee, CreatedAt: base.Add(7 * time.Minute)},
		{Kind: models.TurnKindOpening, AuthorID: challengee, CreatedAt: base.Add(1 * time.Minute)},
		{Kind: models.TurnKindRound, RoundNumber: 1, AuthorID: challenger, CreatedAt: base.Add(2 * time.Minute)},
		{Kind: models.TurnKindClosing, AuthorID: challenger, CreatedAt: base.Add(6 * time.Minute)},
		{Kind: models.TurnKindOpening, AuthorID: challenger, CreatedAt: base},
		{Kind: models.TurnKindRound, RoundNumber: 1, AuthorID: challengee, CreatedAt: base.Add(3 * time.Minute)},
	}

	sorted := SortTurns(turns)

	wantKinds := []string{"opening", "opening", "round", "round", "round", "closing", "closing"}
	for i, want := range wantKinds {
		if sorted[i].Kind != want {
			t.Fatalf("position %d: kind = %q, want %q", i, sorted[i].Kind, want)
		}
	}
	if sorted[0].AuthorID != challenger || sorted[1].AuthorID != challengee {
		t.Error("openings should be ordered by creation time")
	}
	if sorted[2].RoundNumber != 1 || sorted[3].RoundNumber != 1 || sorted[4].RoundNumber != 2 {
		t.Error("rounds should be ordered by round number")
	}
	if sorted[5].AuthorID != challenger || sorted[6].AuthorID != challengee {
		t.Error("closings should be ordered by creation time")
	}
	if len(sorted) != len(turns) {
		t.Errorf("sort changed length: %d != %d", len(sorted), len(turns))
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("  one  two\nthree "); n != 3 {
		t.Errorf("WordCount = %d, want 3", n)
	}
	if n := WordCount(""); n != 0 {
		t.Errorf("WordCount of empty = %d, want 0", n)
	}
}
