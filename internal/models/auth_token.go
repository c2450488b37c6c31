package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is a revocable login token. Logging in reuses the user's
// existing token if one exists; revoke-all deletes every token for the user
// so all sessions are logged out at once.
type AuthToken struct {
	Key       string    `gorm:"type:varchar(36);primarykey" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
