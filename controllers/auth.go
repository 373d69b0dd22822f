package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/middlewares"
	"aerogrow/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// authSettings is set by SetupRouter.
var authSettings config.AuthSettings

type signupRequest struct {
	Username string  `json:"username" binding:"required,min=3"`
	Password string  `json:"password" binding:"required,min=6"`
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new user.
func Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Role:     models.RoleUser,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		logger.Get().Error("Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// Login authenticates a user and returns a JWT token.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := middlewares.IssueToken([]byte(authSettings.JWTSecret), user.ID, authSettings.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func GetProfile(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.GetUint(middlewares.UserIDKey)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type roleRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PromoteToAdmin promotes a user to an admin role. The route is guarded
// by RequireAdmin.
func PromoteToAdmin(c *gin.Context) {
	changeRole(c, models.RoleAdmin, "User promoted to admin successfully")
}

// DemoteToUser returns a user to the plain user role. The route is guarded
// by RequireAdmin; admins cannot demote themselves.
func DemoteToUser(c *gin.Context) {
	changeRole(c, models.RoleUser, "User demoted to user successfully")
}

func changeRole(c *gin.Context, role, message string) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	callerID := c.GetUint(middlewares.UserIDKey)
	if role != models.RoleAdmin {
		var caller models.User
		if err := config.DB.First(&caller, callerID).Error; err == nil && caller.Email != nil && *caller.Email == req.Email {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
			return
		}
	}

	found, err := updateUserRole(req.Email, role)
	if err != nil {
		logger.Get().Error("Failed to update user role", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user role"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	logger.Get().Info("User role updated", "email", req.Email, "role", role, "by", callerID)
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func updateUserRole(email, role string) (bool, error) {
	result := config.DB.Model(&models.User{}).Where("email = ?", email).Update("role", role)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteUserAccount removes a user together with their scans and the
// minerals, analyses and history of those scans. The route is guarded by
// RequireAdmin; admins cannot delete their own account.
func DeleteUserAccount(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}
	if id == c.GetUint(middlewares.UserIDKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var target models.User
	if err := config.DB.First(&target, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find user"})
		return
	}

	var deletedScans int64
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		scanIDs := tx.Model(&models.Scan{}).Select("id").Where("user_id = ?", id)
		for _, model := range []interface{}{&models.Mineral{}, &models.MlAnalysis{}, &models.ScanHistory{}} {
			if err := tx.Where("scan_id IN (?)", scanIDs).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ScanHistory{}).Error; err != nil {
			return err
		}
		result := tx.Where("user_id = ?", id).Delete(&models.Scan{})
		if result.Error != nil {
			return result.Error
		}
		deletedScans = result.RowsAffected
		return tx.Delete(&target).Error
	})
	if err != nil {
		logger.Get().Error("Failed to delete user account", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user account"})
		return
	}

	logger.Get().Info("User account deleted", "id", id, "by", c.GetUint(middlewares.UserIDKey))
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully deleted user account '%s' and all associated data", target.Username),
		"deletedUser": gin.H{
			"id":       target.ID,
			"username": target.Username,
			"role":     target.Role,
		},
		"deletedScans": deletedScans,
	})
}

func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("id asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}
