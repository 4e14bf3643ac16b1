package routes

import (
	"agorahall/controllers"
	"agorahall/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupDebateRoutes(router *gin.RouterGroup) {
	// Public reads, including the change poll
	router.GET("/debates/:id", controllers.GetDebateHandler)
	router.GET("/debates/:id/changes", controllers.DebateChangesHandler)

	// Lifecycle actions require a session
	authed := router.Group("/", middlewares.AuthMiddleware())
	authed.POST("/debates", controllers.StartOpenDebateHandler)
	authed.POST("/debates/:id/join", controllers.JoinDebateHandler)
	authed.POST("/debates/:id/accept", controllers.AcceptChallengeHandler)
	authed.POST("/debates/:id/reject", controllers.RejectChallengeHandler)
	authed.POST("/debates/:id/turns", controllers.SubmitTurnHandler)
	authed.POST("/debates/:id/closing", controllers.SubmitClosingHandler)
	authed.POST("/debates/:id/forfeit", controllers.ForfeitDebateHandler)
	authed.POST("/debates/:id/votes", controllers.CastVoteHandler)
}
