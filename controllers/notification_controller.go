package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agorahall/services"
)

// GetNotificationsHandler lists the caller's notifications, newest first.
func GetNotificationsHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifications, err := services.ListNotifications(ctx, profile.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	unread, err := services.UnreadCount(ctx, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unreadCount": unread})
}

// MarkNotificationReadHandler marks one of the caller's notifications read.
func MarkNotificationReadHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	notificationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := services.MarkNotificationRead(ctx, notificationID, profile.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllNotificationsReadHandler clears the caller's unread pile.
func MarkAllNotificationsReadHandler(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated, err := services.MarkAllNotificationsRead(ctx, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read", "updated": updated})
}
