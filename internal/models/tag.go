package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag values are unique case-insensitively; the stored casing is whichever
// variant was created first.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primarykey" json:"-"`
	Value string    `gorm:"type:varchar(25);uniqueIndex;not null" json:"value"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
