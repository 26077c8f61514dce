package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Club{}, &models.ClubRole{}, &models.Event{})
	require.NoError(t, err)

	err = db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_club_roles_one_headship ON club_roles (user_id) WHERE kind = 'head'",
	).Error
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// testContext builds a gin context with the database and an authenticated
// user already injected, the way the middleware chain would.
func testContext(db *gorm.DB, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("db", db)
	if userID != uuid.Nil {
		c.Set("user_id", userID)
	}
	return c, w
}

func withJSONBody(t *testing.T, c *gin.Context, method, url string, payload interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func withFormBody(t *testing.T, c *gin.Context, method, url string, fields map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:      email,
		Password:   string(hashed),
		Name:       "Test User",
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestClub(t *testing.T, db *gorm.DB, owner *models.User, name string, eventTypes []string) *models.Club {
	t.Helper()
	club := &models.Club{
		ClubName:   name,
		EventTypes: eventTypes,
		CoreTeam:   []string{"Alice", "Bob"},
	}
	require.NoError(t, db.Create(club).Error)

	now := time.Now()
	roles := []models.ClubRole{
		{UserID: owner.ID, ClubID: club.ID, Kind: models.RoleHead, GrantedAt: now},
		{UserID: owner.ID, ClubID: club.ID, Kind: models.RoleMember, GrantedAt: now},
	}
	require.NoError(t, db.Create(&roles).Error)
	return club
}

func createTestEvent(t *testing.T, db *gorm.DB, club *models.Club, name string, registrationEnd time.Time) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:                name,
		Description:         "a test event",
		Mode:                models.ModeOffline,
		RegistrationEndDate: registrationEnd,
		EventStartDate:      registrationEnd.AddDate(0, 0, 1),
		EventEndDate:        registrationEnd.AddDate(0, 0, 2),
		ImagePath:           "uploads/event_images/test.png",
		RegistrationLink:    "https://forms.example.com/register",
		ClubID:              club.ID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}
