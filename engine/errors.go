package engine

import "errors"

// Transition errors. The engine never mutates anything; a non-nil error
// means no update, turn or notice was produced.
var (
	ErrSelfChallenge  = errors.New("challenger and respondent are the same user")
	ErrNotParticipant = errors.New("caller is not a debate participant")
	ErrNotRespondent  = errors.New("only the challenged party can respond to a challenge")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrInvalidState   = errors.New("debate state does not allow this action")
	ErrRoundLimit     = errors.New("round limit reached; only closings are accepted")
	ErrNoOpponent     = errors.New("no opponent has joined this debate yet")
	ErrEmptyContent   = errors.New("content is required")
	ErrContentTooLong = errors.New("content exceeds the word limit")
	ErrInvalidSide    = errors.New("invalid vote side")
)
