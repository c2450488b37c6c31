package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/constants"
	"github.com/campusportal/portal-api/internal/models"
)

// ErrResetRequestAlreadyUsed is returned when marking a request used loses
// the race against another redemption of the same key.
var ErrResetRequestAlreadyUsed = errors.New("password reset request already used")

// GormPasswordResetRepository is a GORM implementation of PasswordResetRepository
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// Create creates a new reset request
func (r *GormPasswordResetRepository) Create(request *models.PasswordResetRequest) error {
	return r.db.Create(request).Error
}

// FindByKey finds a reset request by key with its user loaded
func (r *GormPasswordResetRepository) FindByKey(key string) (*models.PasswordResetRequest, error) {
	var request models.PasswordResetRequest
	if err := r.db.Preload("User").Where("key = ?", key).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// MarkUsed marks the request used. The update is conditioned on
// used_at IS NULL so concurrent redemptions of the same key serialize on the
// row: exactly one wins.
func (r *GormPasswordResetRepository) MarkUsed(request *models.PasswordResetRequest, now time.Time) error {
	result := r.db.Model(&models.PasswordResetRequest{}).
		Where("id = ? AND used_at IS NULL", request.ID).
		Update("used_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResetRequestAlreadyUsed
	}
	request.UsedAt = &now
	return nil
}

// PruneUnusable hard-deletes expired and used requests. This is advisory
// cleanup: usability is always recomputed from timestamps, so skipping a
// sweep loses nothing.
func (r *GormPasswordResetRepository) PruneUnusable(now time.Time) error {
	cutoff := now.Add(-constants.ResetRequestValidDuration)
	return r.db.
		Where("created_at < ? OR used_at IS NOT NULL", cutoff).
		Delete(&models.PasswordResetRequest{}).Error
}
