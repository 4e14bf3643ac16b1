package controllers

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"agorahall/config"
	"agorahall/structs"
	"agorahall/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/gin-gonic/gin"
)

func SignUp(ctx *gin.Context) {
	cfg := loadConfig(ctx)
	if cfg == nil {
		return
	}

	var request structs.SignUpRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	err := signUpWithCognito(cfg, request.Email, request.Password, ctx)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to sign up", "message": err.Error()})
		return
	}

	ctx.JSON(200, gin.H{"message": "Sign-up successful"})
}

func VerifyEmail(ctx *gin.Context) {
	cfg := loadConfig(ctx)
	if cfg == nil {
		return
	}

	var request structs.VerifyEmailRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	err := verifyEmailWithCognito(cfg, request.Email, request.ConfirmationCode, ctx)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to verify email", "message": err.Error()})
		return
	}

	ctx.JSON(200, gin.H{"message": "Email verification successful"})
}

// Login authenticates against the identity provider, then issues the
// session token the rest of the API accepts. The profile row is created on
// first login.
func Login(ctx *gin.Context) {
	cfg := loadConfig(ctx)
	if cfg == nil {
		return
	}

	var request structs.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	if err := loginWithCognito(cfg, request.Email, request.Password, ctx); err != nil {
		ctx.JSON(401, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := utils.EnsureProfile(dbCtx, request.Email)
	if err != nil {
		log.Println("Failed to ensure profile on login:", err)
		ctx.JSON(500, gin.H{"error": "Failed to sign in"})
		return
	}

	token, err := utils.GenerateJWTToken(profile.ID.Hex(), profile.Email)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to sign in"})
		return
	}

	ctx.JSON(200, gin.H{"message": "Sign-in successful", "accessToken": token, "profile": profile})
}

func ForgotPassword(ctx *gin.Context) {
	cfg := loadConfig(ctx)
	if cfg == nil {
		return
	}

	var request structs.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": "Check email format"})
		return
	}

	_, err := initiateForgotPassword(cfg, request.Email, ctx)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to initiate password reset", "message": err.Error()})
		return
	}

	ctx.JSON(200, gin.H{"message": "Password reset initiated. Check your email for further instructions."})
}

func VerifyForgotPassword(ctx *gin.Context) {
	cfg := loadConfig(ctx)
	if cfg == nil {
		return
	}

	var request structs.VerifyForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(400, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	_, err := confirmForgotPassword(cfg, request.Email, request.Code, request.NewPassword, ctx)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to confirm password reset", "message": err.Error()})
		return
	}

	ctx.JSON(200, gin.H{"message": "Password successfully changed"})
}

func VerifyToken(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		ctx.JSON(401, gin.H{"error": "Missing token"})
		return
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		ctx.JSON(400, gin.H{"error": "Invalid token format"})
		return
	}

	valid, email, err := utils.ValidateTokenAndFetchEmail(tokenParts[1])
	if err != nil || !valid {
		ctx.JSON(401, gin.H{"error": "Token is invalid or expired"})
		return
	}

	ctx.JSON(200, gin.H{"message": "Token is valid", "email": email})
}

func loadConfig(ctx *gin.Context) *config.Config {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config/config.prod.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Println("Failed to load config")
		ctx.JSON(500, gin.H{"error": "Internal server error"})
		return nil
	}
	return cfg
}

func cognitoClientFor(cfg *config.Config, ctx *gin.Context) (*cognitoidentityprovider.Client, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Cognito.Region))
	if err != nil {
		log.Println("Error loading AWS config:", err)
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return cognitoidentityprovider.NewFromConfig(awsCfg), nil
}

func signUpWithCognito(cfg *config.Config, email, password string, ctx *gin.Context) error {
	cognitoClient, err := cognitoClientFor(cfg, ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, cfg.Cognito.AppClientId, cfg.Cognito.AppClientSecret)

	signupInput := cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(cfg.Cognito.AppClientId),
		Password:   aws.String(password),
		SecretHash: aws.String(secretHash),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{
				Name:  aws.String("email"),
				Value: aws.String(email),
			},
			{
				Name:  aws.String("nickname"),
				Value: aws.String(utils.ExtractNameFromEmail(email)),
			},
		},
	}

	if _, err := cognitoClient.SignUp(ctx, &signupInput); err != nil {
		log.Println("Error during sign-up:", err)
		return fmt.Errorf("sign-up failed: %v", err)
	}

	return nil
}

func verifyEmailWithCognito(cfg *config.Config, email, confirmationCode string, ctx *gin.Context) error {
	cognitoClient, err := cognitoClientFor(cfg, ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, cfg.Cognito.AppClientId, cfg.Cognito.AppClientSecret)

	confirmSignUpInput := cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(cfg.Cognito.AppClientId),
		ConfirmationCode: aws.String(confirmationCode),
		Username:         aws.String(email),
		SecretHash:       aws.String(secretHash),
	}

	if _, err := cognitoClient.ConfirmSignUp(ctx, &confirmSignUpInput); err != nil {
		log.Println("Error during email verification:", err)
		return fmt.Errorf("email verification failed: %v", err)
	}

	return nil
}

func loginWithCognito(cfg *config.Config, email, password string, ctx *gin.Context) error {
	cognitoClient, err := cognitoClientFor(cfg, ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, cfg.Cognito.AppClientId, cfg.Cognito.AppClientSecret)

	authInput := cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(cfg.Cognito.AppClientId),
		AuthParameters: map[string]string{
			"USERNAME":    email,
			"PASSWORD":    password,
			"SECRET_HASH": secretHash,
		},
	}

	if _, err := cognitoClient.InitiateAuth(ctx, &authInput); err != nil {
		return fmt.Errorf("authentication failed")
	}

	return nil
}

func initiateForgotPassword(cfg *config.Config, email string, ctx *gin.Context) (*cognitoidentityprovider.ForgotPasswordOutput, error) {
	cognitoClient, err := cognitoClientFor(cfg, ctx)
	if err != nil {
		return nil, err
	}

	secretHash := utils.GenerateSecretHash(email, cfg.Cognito.AppClientId, cfg.Cognito.AppClientSecret)

	forgotPasswordInput := cognitoidentityprovider.ForgotPasswordInput{
		ClientId:   aws.String(cfg.Cognito.AppClientId),
		Username:   aws.String(email),
		SecretHash: aws.String(secretHash),
	}

	output, err := cognitoClient.ForgotPassword(ctx, &forgotPasswordInput)
	if err != nil {
		return nil, fmt.Errorf("error initiating forgot password: %v", err)
	}

	return output, nil
}

func confirmForgotPassword(cfg *config.Config, email, code, newPassword string, ctx *gin.Context) (*cognitoidentityprovider.ConfirmForgotPasswordOutput, error) {
	cognitoClient, err := cognitoClientFor(cfg, ctx)
	if err != nil {
		return nil, err
	}

	secretHash := utils.GenerateSecretHash(email, cfg.Cognito.AppClientId, cfg.Cognito.AppClientSecret)

	confirmForgotPasswordInput := cognitoidentityprovider.ConfirmForgotPasswordInput{
		ClientId:         aws.String(cfg.Cognito.AppClientId),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
		SecretHash:       aws.String(secretHash),
	}

	output, err := cognitoClient.ConfirmForgotPassword(ctx, &confirmForgotPasswordInput)
	if err != nil {
		return nil, fmt.Errorf("error confirming forgot password: %v", err)
	}

	return output, nil
}
