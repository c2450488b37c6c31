package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// Save persists changes to an existing project
func (r *GormProjectRepository) Save(project *models.Project) error {
	return r.db.Omit("Students", "Tags", "TA", "ClientRep", "ClientOrg").Save(project).Error
}

// FindByName finds a project by its natural key
func (r *GormProjectRepository) FindByName(name string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("name = ?", name).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisibleTo lists projects visible to the actor
func (r *GormProjectRepository) ListVisibleTo(actor *models.User, homePageOnly bool) ([]models.Project, error) {
	query := visibleProjectScope(r.db, actor)
	if homePageOnly {
		query = query.Where("projects.display_on_home_page = ?", true)
	}

	var projects []models.Project
	if err := query.
		Preload("ClientOrg").
		Preload("TA").
		Preload("ClientRep").
		Preload("Students").
		Preload("Tags").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindVisibleByID finds a project by ID if it is visible to the actor, with
// relations loaded. An existing-but-invisible project yields the same
// not-found result as a missing one.
func (r *GormProjectRepository) FindVisibleByID(actor *models.User, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := visibleProjectScope(r.db, actor).
		Preload("ClientOrg").
		Preload("TA").
		Preload("ClientRep").
		Preload("Students").
		Preload("Tags").
		Where("projects.id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisibleRelatedTo lists the actor-visible projects a user belongs to,
// split by relation
func (r *GormProjectRepository) ListVisibleRelatedTo(actor *models.User, userID uuid.UUID) (student, ta, rep []models.Project, err error) {
	memberships := r.db.Session(&gorm.Session{NewDB: true}).
		Table("project_students").
		Select("project_id").
		Where("user_id = ?", userID)

	if err = visibleProjectScope(r.db, actor).
		Preload("Tags").
		Where("projects.id IN (?)", memberships).
		Find(&student).Error; err != nil {
		return nil, nil, nil, err
	}

	if err = visibleProjectScope(r.db, actor).
		Preload("Tags").
		Where("projects.ta_id = ?", userID).
		Find(&ta).Error; err != nil {
		return nil, nil, nil, err
	}

	if err = visibleProjectScope(r.db, actor).
		Preload("Tags").
		Where("projects.client_rep_id = ?", userID).
		Find(&rep).Error; err != nil {
		return nil, nil, nil, err
	}

	return student, ta, rep, nil
}

// AddStudent adds a user to the project's student set
func (r *GormProjectRepository) AddStudent(project *models.Project, student *models.User) error {
	return r.db.Model(project).Association("Students").Append(student)
}

// ReplaceTags replaces the project's tag associations
func (r *GormProjectRepository) ReplaceTags(project *models.Project, tags []models.Tag) error {
	if len(tags) == 0 {
		return r.db.Model(project).Association("Tags").Clear()
	}
	return r.db.Model(project).Association("Tags").Replace(tags)
}
