package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/constants"
)

// PasswordResetRequest authorizes a single password change for its user
// within a limited window. Usability is always recomputed from timestamps;
// pruning expired rows is advisory cleanup only.
type PasswordResetRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Key       string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (r *PasswordResetRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Key == "" {
		r.Key = uuid.NewString()
	}
	return nil
}

// IsUsable reports whether the request can still redeem a password change:
// never used and younger than the validity window.
func (r *PasswordResetRequest) IsUsable(now time.Time) bool {
	return r.UsedAt == nil && now.Before(r.CreatedAt.Add(constants.ResetRequestValidDuration))
}
