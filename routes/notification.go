package routes

import (
	"agorahall/controllers"
	"agorahall/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(router *gin.RouterGroup) {
	authed := router.Group("/", middlewares.AuthMiddleware())
	authed.GET("/notifications", controllers.GetNotificationsHandler)
	authed.POST("/notifications/:id/read", controllers.MarkNotificationReadHandler)
	authed.POST("/notifications/readAll", controllers.MarkAllNotificationsReadHandler)
}
