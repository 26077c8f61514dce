package models

import (
	"time"

	"github.com/google/uuid"
)

type RoleKind string

const (
	RoleHead      RoleKind = "head"
	RoleMember    RoleKind = "member"
	RoleCounselor RoleKind = "counselor"
)

// ClubRole is the authoritative join between users and clubs. One row per
// (user, club, kind); a user may hold roles in several clubs at once. A club
// always keeps at least one "head" row.
type ClubRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ClubID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"club_id"`
	Kind      RoleKind  `gorm:"type:varchar(20);primaryKey" json:"kind"`
	GrantedAt time.Time `json:"granted_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Club Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}
