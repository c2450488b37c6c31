package repository

import (
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindByValueFold finds a tag matching the value case-insensitively
func (r *GormTagRepository) FindByValueFold(value string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("LOWER(value) = LOWER(?)", value).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Create creates a new tag
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}
