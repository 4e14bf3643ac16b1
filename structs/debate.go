package structs

type CreateChallengeRequest struct {
	Opening          string              `json:"opening" binding:"required"`
	OpposingPosition string              `json:"opposingPosition"`
	Definitions      []DefinitionPayload `json:"definitions"`
}

type OpenDebateRequest struct {
	PositionID string `json:"positionId" binding:"required"`
}

type JoinDebateRequest struct {
	Opening string `json:"opening" binding:"required"`
}

type AcceptChallengeRequest struct {
	Opening string `json:"opening" binding:"required"`
}

type SubmitTurnRequest struct {
	Content string `json:"content" binding:"required"`
}

type SubmitClosingRequest struct {
	Content string `json:"content" binding:"required"`
}

type CastVoteRequest struct {
	Side string `json:"side" binding:"required"`
}
