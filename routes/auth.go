package routes

import (
	"agorahall/controllers"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup) {
	router.POST("/signup", controllers.SignUp)
	router.POST("/verifyEmail", controllers.VerifyEmail)
	router.POST("/login", controllers.Login)
	router.POST("/forgotPassword", controllers.ForgotPassword)
	router.POST("/confirmForgotPassword", controllers.VerifyForgotPassword)
	router.POST("/verifyToken", controllers.VerifyToken)
}
