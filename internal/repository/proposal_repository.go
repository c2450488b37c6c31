package repository

import (
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

// GormProposalRepository is a GORM implementation of ProposalRepository
type GormProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &GormProposalRepository{db: db}
}

// Create creates a new proposal
func (r *GormProposalRepository) Create(proposal *models.Proposal) error {
	return r.db.Create(proposal).Error
}

// ListMailingListEmails returns the current proposal notification recipients
func (r *GormProposalRepository) ListMailingListEmails() ([]string, error) {
	var emails []string
	if err := r.db.Model(&models.MailingListEntry{}).Pluck("email", &emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}
