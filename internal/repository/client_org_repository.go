package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

// GormClientOrgRepository is a GORM implementation of ClientOrgRepository
type GormClientOrgRepository struct {
	db *gorm.DB
}

// NewClientOrgRepository creates a new ClientOrgRepository
func NewClientOrgRepository(db *gorm.DB) ClientOrgRepository {
	return &GormClientOrgRepository{db: db}
}

// Create creates a new client org
func (r *GormClientOrgRepository) Create(org *models.ClientOrg) error {
	return r.db.Create(org).Error
}

// Save persists changes to an existing client org
func (r *GormClientOrgRepository) Save(org *models.ClientOrg) error {
	return r.db.Omit("Reps", "Projects").Save(org).Error
}

// FindByName finds an org by its natural key
func (r *GormClientOrgRepository) FindByName(name string) (*models.ClientOrg, error) {
	var org models.ClientOrg
	if err := r.db.Where("name = ?", name).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ListVisibleTo lists orgs visible to the actor
func (r *GormClientOrgRepository) ListVisibleTo(actor *models.User) ([]models.ClientOrg, error) {
	var orgs []models.ClientOrg
	if err := visibleOrgScope(r.db, actor).
		Preload("Reps").
		Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// FindVisibleByID finds an org by ID if it is visible to the actor. An
// existing-but-invisible org yields the same not-found result as a missing
// one.
func (r *GormClientOrgRepository) FindVisibleByID(actor *models.User, id uuid.UUID) (*models.ClientOrg, error) {
	var org models.ClientOrg
	if err := visibleOrgScope(r.db, actor).
		Preload("Reps").
		Where("client_orgs.id = ?", id).
		First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// AddRep adds a user to the org's representative set
func (r *GormClientOrgRepository) AddRep(org *models.ClientOrg, rep *models.User) error {
	return r.db.Model(org).Association("Reps").Append(rep)
}
