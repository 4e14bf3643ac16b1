package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agorahall/internal/changefeed"
	"agorahall/services"
	"agorahall/structs"
)

// StartOpenDebateHandler opens an "anyone may accept" debate on a position.
func StartOpenDebateHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	var req structs.OpenDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	positionID, err := primitive.ObjectIDFromHex(req.PositionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	debate, err := services.StartOpenDebate(ctx, positionID, profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"debate": debate})
}

// JoinDebateHandler binds the caller as the opponent of an open debate.
func JoinDebateHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.JoinDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.JoinDebate(ctx, debateID, profile.ID, req.Opening)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// AcceptChallengeHandler activates a pending challenge. Only the challenged
// author may accept, and their opening statement is required.
func AcceptChallengeHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.AcceptChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.AcceptChallenge(ctx, debateID, profile.ID, req.Opening)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// RejectChallengeHandler declines a pending challenge.
func RejectChallengeHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.RejectChallenge(ctx, debateID, profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// SubmitTurnHandler appends one alternating-round turn.
func SubmitTurnHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.SubmitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.SubmitTurn(ctx, debateID, profile.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// SubmitClosingHandler appends a closing statement once rounds are done.
func SubmitClosingHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.SubmitClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.SubmitClosing(ctx, debateID, profile.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// ForfeitDebateHandler concedes; the opponent wins if one is bound.
func ForfeitDebateHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.Forfeit(ctx, debateID, profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// CastVoteHandler records or replaces the caller's spectator vote.
func CastVoteHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tally, err := services.CastVote(ctx, debateID, profile.ID, req.Side)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"votes": tally})
}

// GetDebateHandler returns the full debate aggregate.
func GetDebateHandler(c *gin.Context) {
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aggregate, err := services.GetDebate(ctx, debateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// DebateChangesHandler answers a client poll: has the debate changed since
// the token the client last saw. Without the change feed backend the client
// is told to refetch rather than risk staleness.
func DebateChangesHandler(c *gin.Context) {
	debateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	since := c.Query("since")

	changed, token, err := services.DebateChangedSince(debateID, since)
	if err != nil {
		if err == changefeed.ErrUnavailable {
			c.JSON(http.StatusOK, gin.H{"changed": true, "token": ""})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for changes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": changed, "token": token})
}
