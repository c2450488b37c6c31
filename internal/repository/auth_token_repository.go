package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/utils"
)

// GormAuthTokenRepository is a GORM implementation of AuthTokenRepository
type GormAuthTokenRepository struct {
	db *gorm.DB
}

// NewAuthTokenRepository creates a new AuthTokenRepository
func NewAuthTokenRepository(db *gorm.DB) AuthTokenRepository {
	return &GormAuthTokenRepository{db: db}
}

// GetOrCreate returns the user's existing token or creates one
func (r *GormAuthTokenRepository) GetOrCreate(userID uuid.UUID) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token = models.AuthToken{
		Key:    utils.GenerateKey(),
		UserID: userID,
	}
	if err := r.db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// FindByKey finds a token by key with its user loaded
func (r *GormAuthTokenRepository) FindByKey(key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteAllForUser revokes every token the user holds
func (r *GormAuthTokenRepository) DeleteAllForUser(userID uuid.UUID) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
