package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agorahall/services"
	"agorahall/structs"
)

// CreateThoughtHandler posts a new thought, either a fresh root or a reply.
func CreateThoughtHandler(c *gin.Context) {
	cfg := loadConfig(c)
	if cfg == nil {
		return
	}
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	var req structs.CreateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	thought, err := services.CreateThought(ctx, profile.ID, req, cfg.Limits.ThoughtsPerDay)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"thought": thought})
}

// GetThoughtFeedHandler returns the paginated home feed of root thoughts.
func GetThoughtFeedHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feed, err := services.ThoughtFeed(ctx, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// GetThoughtThreadHandler returns a root thought and its reply tree.
func GetThoughtThreadHandler(c *gin.Context) {
	rootID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	thread, err := services.ThoughtThread(ctx, rootID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"thoughts": thread})
}

// PromoteThoughtHandler converts the caller's thought into a debatable
// position.
func PromoteThoughtHandler(c *gin.Context) {
	cfg := loadConfig(c)
	if cfg == nil {
		return
	}
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	thoughtID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.PromoteThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	position, err := services.PromoteThought(ctx, thoughtID, profile.ID, req, cfg.Limits.PositionsPerDay)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"position": position})
}

// DeleteThoughtHandler soft-deletes the caller's thought.
func DeleteThoughtHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	thoughtID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := services.DeleteThought(ctx, thoughtID, profile.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thought deleted"})
}
