package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-planner/internal/service"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Avatar      string `json:"avatar"`
	DeviceToken string `json:"deviceToken"`
}

type loginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DeviceToken string `json:"deviceToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type updateProfileRequest struct {
	Name   string  `json:"name" binding:"required"`
	Avatar *string `json:"avatar"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type deviceTokenRequest struct {
	DeviceToken string `json:"deviceToken" binding:"required"`
}

// RegisterPublicUserRoutes mounts the endpoints that work without a token.
func RegisterPublicUserRoutes(group *gin.RouterGroup, users service.UserServiceInterface, logger *log.Logger) {
	group.POST("/users/create", func(c *gin.Context) { CreateUser(c, users, logger) })
	group.POST("/users/login", func(c *gin.Context) { Login(c, users, logger) })
	group.POST("/users/forgot-password", func(c *gin.Context) { ForgotPassword(c, users, logger) })
}

func RegisterUserRoutes(group *gin.RouterGroup, users service.UserServiceInterface, logger *log.Logger) {
	group.GET("/users/me", func(c *gin.Context) { GetCurrentUser(c, users, logger) })
	group.PUT("/users/change-password", func(c *gin.Context) { ChangePassword(c, users, logger) })
	group.PUT("/users/update-profile", func(c *gin.Context) { UpdateProfile(c, users, logger) })
	group.POST("/users/update-device-token", func(c *gin.Context) { UpdateDeviceToken(c, users, logger) })
}

func CreateUser(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := users.Register(c.Request.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Avatar:      req.Avatar,
		DeviceToken: req.DeviceToken,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, user, err := users.Login(c.Request.Context(), req.Email, req.Password, req.DeviceToken)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func ForgotPassword(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "A new password has been sent to your email"})
}

func GetCurrentUser(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func ChangePassword(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := users.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func UpdateProfile(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := users.UpdateProfile(c.Request.Context(), userID, req.Name, req.Avatar)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateDeviceToken(c *gin.Context, users service.UserServiceInterface, logger *log.Logger) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := users.UpdateDeviceToken(c.Request.Context(), userID, req.DeviceToken); err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device token updated"})
}
