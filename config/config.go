package config

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the handlers map to conflict responses.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Club{}, &models.ClubRole{}, &models.Event{})
	if err != nil {
		return nil, err
	}

	// A user heads at most one club. The partial index makes the store
	// reject a second headship even when two grants race past the
	// handler-level check.
	err = db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_club_roles_one_headship ON club_roles (user_id) WHERE kind = 'head'",
	).Error
	if err != nil {
		return nil, err
	}

	seedSiteHead(db)

	return db, nil
}

// seedSiteHead creates the site-wide head account from HEAD_EMAIL and
// HEAD_PASSWORD. The head super-role is only ever assigned here.
func seedSiteHead(db *gorm.DB) {
	email := os.Getenv("HEAD_EMAIL")
	password := os.Getenv("HEAD_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if result := db.Where("email = ?", email).First(&existing); result.Error == nil {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash head password: %v", err)
		return
	}

	head := models.User{
		Email:      email,
		Password:   string(hashedPassword),
		Name:       "Site Head",
		IsHead:     true,
		IsVerified: true,
	}
	if err := db.Create(&head).Error; err != nil {
		log.Printf("failed to seed head user: %v", err)
	}
}
