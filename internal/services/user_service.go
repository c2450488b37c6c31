package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/policy"
	"github.com/campusportal/portal-api/internal/repository"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEditForbidden = errors.New("not permitted to edit this user")
)

// UserService handles user profile reads and updates.
type UserService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// RelatedProjects returns the actor-visible projects the user belongs to,
// split by relation (student, TA, client rep).
func (s *UserService) RelatedProjects(actor *models.User, userID uuid.UUID) (student, ta, rep []models.Project, err error) {
	return s.projectRepo.ListVisibleRelatedTo(actor, userID)
}

// UpdateUserInput carries a partial profile update. Nil fields were not
// submitted. The GitHub identity fields are deliberately absent: they are
// server-controlled and set only by the login flow.
type UpdateUserInput struct {
	Email        *string
	Name         *string
	Bio          *string
	Image        *string
	WebsiteLink  *string
	LinkedinLink *string
}

// UpdateUser applies a profile update. Only the user themself or an
// operator may edit a profile.
func (s *UserService) UpdateUser(actor *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanEditUser(actor, user) {
		return nil, ErrUserEditForbidden
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	if input.WebsiteLink != nil {
		user.WebsiteLink = *input.WebsiteLink
	}
	if input.LinkedinLink != nil {
		user.LinkedinLink = *input.LinkedinLink
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
