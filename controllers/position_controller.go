package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"agorahall/db"
	"agorahall/models"
	"agorahall/services"
	"agorahall/structs"
)

// CreatePositionHandler publishes a standalone position.
func CreatePositionHandler(c *gin.Context) {
	cfg := loadConfig(c)
	if cfg == nil {
		return
	}
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	var req structs.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	position, err := services.CreatePosition(ctx, profile.ID, req, cfg.Limits.PositionsPerDay)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"position": position})
}

// GetPositionHandler returns one position with its debates.
func GetPositionHandler(c *gin.Context) {
	positionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var position models.Position
	err := db.GetCollection(db.PositionsCollection).FindOne(ctx, bson.M{"_id": positionID}).Decode(&position)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Position not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch position"})
		return
	}

	debates, err := services.ListDebatesForPosition(ctx, positionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"position": position, "debates": debates})
}

// ExplorePositionsHandler ranks positions by debate activity.
func ExplorePositionsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	entries, err := services.ExplorePositions(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"positions": entries})
}

// CreateChallengeHandler opens a direct challenge against a position's
// author. The challenger's opening statement rides along.
func CreateChallengeHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	positionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req structs.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	debate, err := services.CreateChallenge(ctx, positionID, profile.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"debate": debate})
}

// ListPositionDebatesHandler lists the debates anchored on a position.
func ListPositionDebatesHandler(c *gin.Context) {
	positionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	debates, err := services.ListDebatesForPosition(ctx, positionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debates": debates})
}
