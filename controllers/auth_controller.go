package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/config"
	"github.com/dadalto/producao-api/models"
	"github.com/dadalto/producao-api/utils"
)

// AuthController issues JWTs for system users (admins and leaders).
type AuthController struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthController creates an auth controller.
func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{db: db, cfg: cfg}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var user models.User
	err := ctrl.db.Where("username = ? AND active = ?", req.Username, true).First(&user).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		// same answer for unknown user and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid username or password",
			},
		})
		return
	}

	ttl := time.Duration(ctrl.cfg.JWTExpireHour) * time.Hour
	token, err := utils.GenerateToken(ctrl.cfg.JWTSecret, user.ID, user.Role, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue token",
			},
		})
		return
	}

	respondOK(c, gin.H{
		"token": token,
		"user":  user,
	})
}
