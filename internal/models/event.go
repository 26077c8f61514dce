package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventMode string

const (
	ModeOnline  EventMode = "Online"
	ModeOffline EventMode = "Offline"
)

type Event struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Mode        EventMode `gorm:"type:varchar(10);not null" json:"mode"`
	Fee         int       `gorm:"not null;default:0" json:"fee"`

	RegistrationEndDate time.Time `gorm:"not null" json:"registration_end_date"`
	EventStartDate      time.Time `gorm:"not null" json:"event_start_date"`
	EventEndDate        time.Time `gorm:"not null" json:"event_end_date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`

	ImagePath        string   `gorm:"not null" json:"image_path"`
	GalleryPaths     []string `gorm:"serializer:json;type:text" json:"gallery_paths"`
	RegistrationLink string   `json:"registration_link"`

	ClubID uuid.UUID `gorm:"type:uuid;not null;index" json:"club_id"`
	Club   Club      `json:"club,omitempty"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// IsRegistrationOpen reports whether registration is still open on the given
// day. Both sides are truncated to the day, so an event whose registration
// ends today is still open.
func (event *Event) IsRegistrationOpen(now time.Time) bool {
	endY, endM, endD := event.RegistrationEndDate.Date()
	nowY, nowM, nowD := now.Date()
	end := time.Date(endY, endM, endD, 0, 0, 0, 0, time.UTC)
	today := time.Date(nowY, nowM, nowD, 0, 0, 0, 0, time.UTC)
	return !end.Before(today)
}
