package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name           string    `gorm:"type:varchar(90)" json:"name"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Image          string    `gorm:"type:varchar(255)" json:"image"`
	WebsiteLink    string    `gorm:"type:varchar(255)" json:"website_link"`
	LinkedinLink   string    `gorm:"type:varchar(255)" json:"linkedin_link"`
	GithubUsername string    `gorm:"type:varchar(60)" json:"github_username"`
	GithubUserID   *string   `gorm:"type:varchar(35);uniqueIndex" json:"github_user_id"`
	PasswordHash   string    `gorm:"type:varchar(255)" json:"-"`
	ActivationKey  *string   `gorm:"type:varchar(36);uniqueIndex" json:"-"`
	IsSuperuser    bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	StudentProjects []Project   `gorm:"many2many:project_students" json:"-"`
	RepOrgs         []ClientOrg `gorm:"many2many:client_org_reps" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasUsablePassword reports whether the user has a credential set.
// An empty hash is a valid state for unactivated and OAuth-only accounts.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// IsActivated reports whether the account has been activated. The activation
// key is present iff the account is not yet activated.
func (u *User) IsActivated() bool {
	return u.ActivationKey == nil
}

// IsStudentOf reports whether the user is in the project's student set.
// The project's Students relation must be loaded.
func (u *User) IsStudentOf(project *Project) bool {
	for _, s := range project.Students {
		if s.ID == u.ID {
			return true
		}
	}
	return false
}

// IsRepOf reports whether the user is a listed representative of the org.
// The org's Reps relation must be loaded.
func (u *User) IsRepOf(org *ClientOrg) bool {
	for _, rep := range org.Reps {
		if rep.ID == u.ID {
			return true
		}
	}
	return false
}
