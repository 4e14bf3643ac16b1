package routes

import (
	"agorahall/controllers"
	"agorahall/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupCommunityRoutes(router *gin.RouterGroup) {
	// Public reads
	router.GET("/thoughts/feed", controllers.GetThoughtFeedHandler)
	router.GET("/thoughts/:id/thread", controllers.GetThoughtThreadHandler)
	router.GET("/positions/explore", controllers.ExplorePositionsHandler)
	router.GET("/positions/:id", controllers.GetPositionHandler)
	router.GET("/positions/:id/debates", controllers.ListPositionDebatesHandler)

	// Authenticated writes
	authed := router.Group("/", middlewares.AuthMiddleware())
	authed.POST("/thoughts", controllers.CreateThoughtHandler)
	authed.POST("/thoughts/:id/promote", controllers.PromoteThoughtHandler)
	authed.DELETE("/thoughts/:id", controllers.DeleteThoughtHandler)
	authed.POST("/positions", controllers.CreatePositionHandler)
	authed.POST("/positions/:id/challenges", controllers.CreateChallengeHandler)
}
