package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusportal/portal-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Save persists changes to an existing user
	Save(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByActivationKey finds an unactivated user by activation key
	FindByActivationKey(key string) (*models.User, error)

	// FindByGithubUserID finds a user by their linked GitHub user ID
	FindByGithubUserID(githubUserID string) (*models.User, error)

	// FindByUnlinkedGithubUsername finds a user with the given GitHub
	// username who has no GitHub user ID stored yet
	FindByUnlinkedGithubUsername(username string) (*models.User, error)

	// ListByName lists users with the given display name
	ListByName(name string) ([]models.User, error)

	// ListByGithubUsername lists users with the given GitHub username
	ListByGithubUsername(username string) ([]models.User, error)
}

// ClientOrgRepository defines the interface for client org data access
type ClientOrgRepository interface {
	Create(org *models.ClientOrg) error
	Save(org *models.ClientOrg) error

	// FindByName finds an org by its natural key
	FindByName(name string) (*models.ClientOrg, error)

	// ListVisibleTo lists orgs visible to the actor (nil actor = anonymous)
	ListVisibleTo(actor *models.User) ([]models.ClientOrg, error)

	// FindVisibleByID finds an org by ID if it is visible to the actor
	FindVisibleByID(actor *models.User, id uuid.UUID) (*models.ClientOrg, error)

	// AddRep adds a user to the org's representative set
	AddRep(org *models.ClientOrg, rep *models.User) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	Save(project *models.Project) error

	// FindByName finds a project by its natural key
	FindByName(name string) (*models.Project, error)

	// ListVisibleTo lists projects visible to the actor (nil actor =
	// anonymous), optionally restricted to home-page projects
	ListVisibleTo(actor *models.User, homePageOnly bool) ([]models.Project, error)

	// FindVisibleByID finds a project by ID if it is visible to the actor,
	// with relations loaded
	FindVisibleByID(actor *models.User, id uuid.UUID) (*models.Project, error)

	// ListVisibleRelatedTo lists the actor-visible projects a user belongs
	// to, split by relation
	ListVisibleRelatedTo(actor *models.User, userID uuid.UUID) (student, ta, rep []models.Project, err error)

	// AddStudent adds a user to the project's student set
	AddStudent(project *models.Project, student *models.User) error

	// ReplaceTags replaces the project's tag associations
	ReplaceTags(project *models.Project, tags []models.Tag) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// FindByValueFold finds a tag matching the value case-insensitively
	FindByValueFold(value string) (*models.Tag, error)

	Create(tag *models.Tag) error
}

// PasswordResetRepository defines the interface for reset request data access
type PasswordResetRepository interface {
	Create(request *models.PasswordResetRequest) error

	// FindByKey finds a reset request by key with its user loaded
	FindByKey(key string) (*models.PasswordResetRequest, error)

	// MarkUsed marks the request used. The write is conditioned on
	// used_at IS NULL so two racing redemptions cannot both succeed.
	MarkUsed(request *models.PasswordResetRequest, now time.Time) error

	// PruneUnusable hard-deletes expired and used requests
	PruneUnusable(now time.Time) error
}

// AuthTokenRepository defines the interface for login token data access
type AuthTokenRepository interface {
	// GetOrCreate returns the user's existing token or creates one
	GetOrCreate(userID uuid.UUID) (*models.AuthToken, error)

	// FindByKey finds a token by key with its user loaded
	FindByKey(key string) (*models.AuthToken, error)

	// DeleteAllForUser revokes every token the user holds
	DeleteAllForUser(userID uuid.UUID) error
}

// ProposalRepository defines the interface for proposal data access
type ProposalRepository interface {
	Create(proposal *models.Proposal) error

	// ListMailingListEmails returns the current proposal notification
	// recipients, re-read per send
	ListMailingListEmails() ([]string, error)
}
