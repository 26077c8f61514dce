package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Club struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClubName    string    `gorm:"uniqueIndex;not null" json:"club_name"`
	Description string    `json:"description"`
	EventTypes  []string  `gorm:"serializer:json;type:text" json:"event_types"`
	CoreTeam    []string  `gorm:"serializer:json;type:text" json:"core_team"`
	BannerPath  string    `json:"banner_path"`
	Instagram   string    `json:"instagram"`
	LinkedIn    string    `json:"linkedin"`
	Website     string    `json:"website"`

	// The event list is derived from Event.ClubID; nothing else stores it.
	Events []Event    `gorm:"foreignKey:ClubID" json:"events,omitempty"`
	Roles  []ClubRole `gorm:"foreignKey:ClubID" json:"roles,omitempty"`
}

func (club *Club) BeforeCreate(tx *gorm.DB) (err error) {
	if club.ID == uuid.Nil {
		club.ID = uuid.New()
	}
	return
}
