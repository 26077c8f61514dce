package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/mail"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/middleware"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.MailerMiddleware(&mail.LogMailer{}))
	r.POST("/api/user/signup", Signup)
	r.POST("/api/user/login", Login)
	r.POST("/api/user/logout", Logout)
	r.POST("/api/user/verify-email", VerifyEmail)
	r.POST("/api/user/forgot-password", ForgotPassword)
	r.POST("/api/user/reset-password/:token", ResetPasswordWithToken)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)

	w := postJSON(t, r, "/api/user/signup", map[string]interface{}{
		"email":    "a@campus.edu",
		"password": "supersecret",
		"name":     "User A",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "a@campus.edu").First(&user).Error)
	require.False(t, user.IsVerified)
	require.Len(t, user.VerificationCode, 6)
	require.NotNil(t, user.VerificationCodeExpiresAt)
	require.True(t, user.VerificationCodeExpiresAt.After(time.Now()))
	require.NotEqual(t, "supersecret", user.Password)

	// A session cookie is issued immediately, before verification.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, helpers.SessionCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)

	payload := map[string]interface{}{
		"email":    "dup@campus.edu",
		"password": "supersecret",
		"name":     "User A",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/user/signup", payload).Code)

	w := postJSON(t, r, "/api/user/signup", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_SameMessageForUnknownUserAndBadPassword(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)
	createTestUser(t, db, "known@campus.edu")

	unknown := postJSON(t, r, "/api/user/login", map[string]string{
		"email":    "unknown@campus.edu",
		"password": "whatever123",
	})
	badPassword := postJSON(t, r, "/api/user/login", map[string]string{
		"email":    "known@campus.edu",
		"password": "wrongwrong",
	})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, badPassword.Code)
	require.JSONEq(t, unknown.Body.String(), badPassword.Body.String())
}

func TestLogin_UpdatesLastLoginAndSetsCookie(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)
	user := createTestUser(t, db, "login@campus.edu")
	require.Nil(t, user.LastLogin)

	w := postJSON(t, r, "/api/user/login", map[string]string{
		"email":    "login@campus.edu",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies())

	var refreshed models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&refreshed).Error)
	require.NotNil(t, refreshed.LastLogin)
}

func TestVerifyEmail(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)

	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/user/signup", map[string]interface{}{
		"email":    "verify@campus.edu",
		"password": "supersecret",
		"name":     "User V",
	}).Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "verify@campus.edu").First(&user).Error)
	code := user.VerificationCode

	w := postJSON(t, r, "/api/user/verify-email", map[string]string{"code": code})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Where("id = ?", user.ID).First(&user).Error)
	require.True(t, user.IsVerified)
	require.Empty(t, user.VerificationCode)

	// The code is single-use.
	w = postJSON(t, r, "/api/user/verify-email", map[string]string{"code": code})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)

	expired := time.Now().Add(-1 * time.Hour)
	user := createTestUser(t, db, "stale@campus.edu")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"is_verified":                  false,
		"verification_code":            "123456",
		"verification_code_expires_at": &expired,
	}).Error)

	w := postJSON(t, r, "/api/user/verify-email", map[string]string{"code": "123456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForgotPassword_SameResponseForUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)
	createTestUser(t, db, "forgot@campus.edu")

	known := postJSON(t, r, "/api/user/forgot-password", map[string]string{"email": "forgot@campus.edu"})
	unknown := postJSON(t, r, "/api/user/forgot-password", map[string]string{"email": "nobody@campus.edu"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	require.JSONEq(t, known.Body.String(), unknown.Body.String())

	var user models.User
	require.NoError(t, db.Where("email = ?", "forgot@campus.edu").First(&user).Error)
	require.Len(t, user.ResetToken, 40) // 160 bits, hex encoded
	require.NotNil(t, user.ResetTokenExpiresAt)
}

func TestResetPasswordWithToken(t *testing.T) {
	db := setupTestDB(t)
	r := newAuthRouter(db)
	user := createTestUser(t, db, "reset@campus.edu")

	require.Equal(t, http.StatusOK, postJSON(t, r, "/api/user/forgot-password", map[string]string{
		"email": "reset@campus.edu",
	}).Code)

	require.NoError(t, db.Where("id = ?", user.ID).First(user).Error)

	w := postJSON(t, r, "/api/user/reset-password/"+user.ResetToken, map[string]string{
		"new_password": "brandnewpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The token is consumed and the new password works.
	var refreshed models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&refreshed).Error)
	require.Empty(t, refreshed.ResetToken)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(refreshed.Password), []byte("brandnewpass")))

	w = postJSON(t, r, "/api/user/reset-password/"+user.ResetToken, map[string]string{
		"new_password": "anotherpass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPassword_BadOldPassword(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "old@campus.edu")

	c, w := testContext(db, user.ID)
	withJSONBody(t, c, http.MethodPost, "/api/user/reset-password", map[string]string{
		"old_password": "notthepassword",
		"new_password": "newpassword1",
	})

	ResetPassword(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "change@campus.edu")

	c, w := testContext(db, user.ID)
	withJSONBody(t, c, http.MethodPost, "/api/user/reset-password", map[string]string{
		"old_password": "supersecret",
		"new_password": "newpassword1",
	})

	ResetPassword(c)

	require.Equal(t, http.StatusOK, w.Code)

	var refreshed models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&refreshed).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(refreshed.Password), []byte("newpassword1")))
}

func TestCheckAuth(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "me@campus.edu")

	c, w := testContext(db, user.ID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/user/check-auth", nil)

	CheckAuth(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, user.Email, response.User.Email)
}
