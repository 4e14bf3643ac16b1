package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agorahall/db"
	"agorahall/models"
	"agorahall/services"
	"agorahall/structs"
)

// GetMyProfileHandler returns the caller's profile with activity stats.
func GetMyProfileHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := services.GetProfileStats(ctx, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile, "stats": stats})
}

// GetProfileHandler returns any member's public profile with stats.
func GetProfileHandler(c *gin.Context) {
	profileID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := db.GetCollection(db.ProfilesCollection).FindOne(ctx, bson.M{"_id": profileID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	stats, err := services.GetProfileStats(ctx, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile, "stats": stats})
}

// UpdateProfileHandler lets the caller edit display fields. Email is the
// identity anchor and is never editable here.
func UpdateProfileHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	var req structs.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	set := bson.M{}
	if username := strings.TrimSpace(req.Username); username != "" {
		set["username"] = username
	}
	if displayName := strings.TrimSpace(req.DisplayName); displayName != "" {
		set["displayName"] = displayName
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.AvatarURL != "" {
		set["avatarUrl"] = req.AvatarURL
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.Profile
	err := db.GetCollection(db.ProfilesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": profile.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": updated})
}
