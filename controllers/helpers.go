package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agorahall/engine"
	"agorahall/models"
	"agorahall/services"
	"agorahall/utils"
)

// currentProfile resolves the authenticated caller set by the auth
// middleware into a profile row.
func currentProfile(c *gin.Context) (*models.Profile, bool) {
	email := c.GetString("userEmail")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := utils.EnsureProfile(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve profile"})
		return nil, false
	}
	return profile, true
}

// objectIDParam parses a path parameter as an ObjectID.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError maps service and transition errors onto HTTP statuses. Rule
// violations by the right user are 400s, the wrong user acting is a 403,
// and a lost write race is a 409 the client resolves by reloading.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The debate changed underneath you; reload and retry"})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily limit reached"})
	case errors.Is(err, services.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
	case errors.Is(err, services.ErrAlreadyPromoted):
		c.JSON(http.StatusConflict, gin.H{"error": "Thought has already been promoted"})
	case errors.Is(err, services.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can do that"})
	case errors.Is(err, engine.ErrNotParticipant),
		errors.Is(err, engine.ErrNotRespondent),
		errors.Is(err, engine.ErrNotYourTurn):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrSelfChallenge),
		errors.Is(err, engine.ErrInvalidState),
		errors.Is(err, engine.ErrRoundLimit),
		errors.Is(err, engine.ErrNoOpponent),
		errors.Is(err, engine.ErrEmptyContent),
		errors.Is(err, engine.ErrContentTooLong),
		errors.Is(err, engine.ErrInvalidSide):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
