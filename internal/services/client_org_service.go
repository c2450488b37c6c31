package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/policy"
	"github.com/campusportal/portal-api/internal/repository"
)

var (
	ErrOrgNotFound      = errors.New("client org not found")
	ErrOrgEditForbidden = errors.New("not permitted to edit this org")
	ErrInvalidOrgType   = errors.New("invalid org type")
	ErrOrgNameEmpty     = errors.New("org name cannot be empty")
)

// ClientOrgService handles client org reads and policy-checked updates.
type ClientOrgService struct {
	orgRepo     repository.ClientOrgRepository
	projectRepo repository.ProjectRepository
}

// NewClientOrgService creates a new ClientOrgService.
func NewClientOrgService(orgRepo repository.ClientOrgRepository, projectRepo repository.ProjectRepository) *ClientOrgService {
	return &ClientOrgService{
		orgRepo:     orgRepo,
		projectRepo: projectRepo,
	}
}

// ListOrgs returns the orgs visible to the actor.
func (s *ClientOrgService) ListOrgs(actor *models.User) ([]models.ClientOrg, error) {
	orgs, err := s.orgRepo.ListVisibleTo(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to list orgs: %w", err)
	}
	return orgs, nil
}

// GetOrg returns a visible org. Invisible orgs are reported as not found.
func (s *ClientOrgService) GetOrg(actor *models.User, id uuid.UUID) (*models.ClientOrg, error) {
	org, err := s.orgRepo.FindVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("failed to find org: %w", err)
	}
	return org, nil
}

// VisibleProjectsOf returns the actor-visible projects owned by the org.
func (s *ClientOrgService) VisibleProjectsOf(actor *models.User, org *models.ClientOrg) ([]models.Project, error) {
	projects, err := s.projectRepo.ListVisibleTo(actor, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	owned := make([]models.Project, 0)
	for _, p := range projects {
		if p.ClientOrgID != nil && *p.ClientOrgID == org.ID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// UpdateOrgInput carries a partial org update. Nil fields were not submitted.
type UpdateOrgInput struct {
	Name        *string
	About       *string
	Image       *string
	WebsiteLink *string
	Type        *string
	Testimonial *string
}

// UpdateOrg applies an update on behalf of the actor. Only a listed rep or
// an operator may edit an org; everyone else is denied outright.
func (s *ClientOrgService) UpdateOrg(actor *models.User, id uuid.UUID, input UpdateOrgInput) (*models.ClientOrg, error) {
	org, err := s.GetOrg(actor, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanEditOrg(actor, org) {
		return nil, ErrOrgEditForbidden
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrOrgNameEmpty
		}
		org.Name = *input.Name
	}
	if input.About != nil {
		org.About = *input.About
	}
	if input.Image != nil {
		org.Image = *input.Image
	}
	if input.WebsiteLink != nil {
		org.WebsiteLink = *input.WebsiteLink
	}
	if input.Type != nil {
		t := models.OrgType(*input.Type)
		if !t.Valid() {
			return nil, ErrInvalidOrgType
		}
		org.Type = t
	}
	if input.Testimonial != nil {
		org.Testimonial = *input.Testimonial
	}

	if err := s.orgRepo.Save(org); err != nil {
		return nil, fmt.Errorf("failed to update org: %w", err)
	}

	return s.GetOrg(actor, id)
}
