package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proposal is a project pitch submitted by a prospective client. Write-once
// from the submitter's perspective; only operators read them.
type Proposal struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RepName     string    `gorm:"type:varchar(95);not null" json:"rep_name"`
	Email       string    `gorm:"type:varchar(255);not null" json:"email"`
	ProjectInfo string    `gorm:"type:text;not null" json:"project_info"`
	Date        time.Time `gorm:"type:date" json:"date"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MailingListEntry is a recipient of proposal notification emails. The list
// is re-read on every send.
type MailingListEntry struct {
	Email string `gorm:"type:varchar(255);primarykey" json:"email"`
}
