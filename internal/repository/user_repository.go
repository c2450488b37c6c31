package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Save persists changes to an existing user
func (r *GormUserRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByActivationKey finds an unactivated user by activation key
func (r *GormUserRepository) FindByActivationKey(key string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("activation_key = ?", key).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByGithubUserID finds a user by their linked GitHub user ID
func (r *GormUserRepository) FindByGithubUserID(githubUserID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("github_user_id = ?", githubUserID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUnlinkedGithubUsername finds a user with the given GitHub username
// and no stored GitHub user ID. Users who already carry a different GitHub
// user ID never match by username alone.
func (r *GormUserRepository) FindByUnlinkedGithubUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("github_username = ? AND github_user_id IS NULL", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByName lists users with the given display name
func (r *GormUserRepository) ListByName(name string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("name = ?", name).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByGithubUsername lists users with the given GitHub username
func (r *GormUserRepository) ListByGithubUsername(username string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("github_username = ?", username).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
