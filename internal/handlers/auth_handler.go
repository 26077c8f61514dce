package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/mail"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/middleware"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	Name            string `json:"name" binding:"required"`
	PhoneNumber     string `json:"phone_number"`
	AdmissionNumber string `json:"admission_number"`
	Branch          string `json:"branch"`
	Year            int    `json:"year"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(helpers.SessionCookieName, token, int((24 * time.Hour).Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(helpers.SessionCookieName, "", -1, "/", "", false, true)
}

func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existingUser models.User
	if result := gormDB.Where("email = ?", req.Email).First(&existingUser); result.Error == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "User already exists with this email.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	code, err := helpers.GenerateVerificationCode()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate verification code.")
		return
	}
	codeExpiry := time.Now().Add(24 * time.Hour)

	user := models.User{
		Email:                     req.Email,
		Password:                  string(hashedPassword),
		Name:                      req.Name,
		PhoneNumber:               req.PhoneNumber,
		AdmissionNumber:           req.AdmissionNumber,
		Branch:                    req.Branch,
		Year:                      req.Year,
		VerificationCode:          code,
		VerificationCodeExpiresAt: &codeExpiry,
	}

	if err := gormDB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusBadRequest, "User already exists with this email.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	token, err := helpers.GenerateSessionToken(user.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate session token.")
		return
	}
	setSessionCookie(c, token)

	// The user row is committed; a failed mail send must not undo it.
	if mailer := middleware.GetMailer(c); mailer != nil {
		subject, body := mail.VerificationBody(user.Name, code)
		if err := mailer.Send(user.Email, subject, body); err != nil {
			log.Printf("failed to send verification email to %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully. A verification code has been emailed to you.",
		"user":    user,
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	now := time.Now()
	if err := gormDB.Model(&user).Update("last_login", &now).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update login time.")
		return
	}

	token, err := helpers.GenerateSessionToken(user.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate session token.")
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Welcome back, %s.", user.Name),
		"user":    user,
	})
}

func Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully.",
	})
}

func VerifyEmail(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	err := gormDB.Where("verification_code = ? AND verification_code_expires_at > ?", req.Code, time.Now()).
		First(&user).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid or expired verification code.")
		return
	}

	updates := map[string]interface{}{
		"is_verified":                  true,
		"verification_code":            "",
		"verification_code_expires_at": nil,
	}
	if err := gormDB.Model(&user).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to verify email.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully.",
	})
}

func ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	// Same response whether or not the email is registered.
	respond := func() {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "If that email is registered, a password reset link has been sent.",
		})
	}

	var user models.User
	if err := gormDB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respond()
		return
	}

	resetToken, err := helpers.GenerateResetToken()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate reset token.")
		return
	}
	tokenExpiry := time.Now().Add(1 * time.Hour)

	updates := map[string]interface{}{
		"reset_token":            resetToken,
		"reset_token_expires_at": &tokenExpiry,
	}
	if err := gormDB.Model(&user).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to store reset token.")
		return
	}

	if mailer := middleware.GetMailer(c); mailer != nil {
		resetLink := fmt.Sprintf("%s/reset-password/%s", os.Getenv("BASE_URL"), resetToken)
		subject, body := mail.PasswordResetBody(user.Name, resetLink)
		if err := mailer.Send(user.Email, subject, body); err != nil {
			log.Printf("failed to send password reset email to %s: %v", user.Email, err)
		}
	}

	respond()
}

// ResetPassword changes the password of the authenticated user after
// checking the old one.
func ResetPassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Old password is incorrect.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	if err := gormDB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update password.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully.",
	})
}

// ResetPasswordWithToken completes the forgot-password flow using the
// emailed token.
func ResetPasswordWithToken(c *gin.Context) {
	resetToken := c.Param("token")

	var req struct {
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	err := gormDB.Where("reset_token = ? AND reset_token_expires_at > ?", resetToken, time.Now()).
		First(&user).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid or expired reset token.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	updates := map[string]interface{}{
		"password":               string(hashedPassword),
		"reset_token":            "",
		"reset_token_expires_at": nil,
	}
	if err := gormDB.Model(&user).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update password.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully. Please log in.",
	})
}

func CheckAuth(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Preload("ClubRoles.Club").Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
