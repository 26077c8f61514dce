package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	Name            string    `gorm:"not null" json:"name"`
	PhoneNumber     string    `json:"phone_number"`
	AdmissionNumber string    `json:"admission_number"`
	Branch          string    `json:"branch"`
	Year            int       `json:"year"`

	// Site-wide super-role, assigned at seed time only.
	IsHead bool `gorm:"not null;default:false" json:"is_head"`

	IsVerified                bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationCode          string     `json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`
	ResetToken                string     `json:"-"`
	ResetTokenExpiresAt       *time.Time `json:"-"`
	LastLogin                 *time.Time `json:"last_login"`

	ClubRoles []ClubRole `gorm:"foreignKey:UserID" json:"club_roles,omitempty"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
