package routes

import (
	"agorahall/controllers"
	"agorahall/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupProfileRoutes(router *gin.RouterGroup) {
	router.GET("/profiles/:id", controllers.GetProfileHandler)

	authed := router.Group("/", middlewares.AuthMiddleware())
	authed.GET("/profile", controllers.GetMyProfileHandler)
	authed.PUT("/profile", controllers.UpdateProfileHandler)
}
