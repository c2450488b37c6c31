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
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectEditForbidden  = errors.New("not permitted to edit this project")
	ErrInvalidProjectType    = errors.New("invalid project type")
	ErrInvalidTerm           = errors.New("invalid term")
	ErrInvalidYear           = errors.New("year must be a positive integer")
	ErrProjectNameEmpty      = errors.New("project name cannot be empty")
	ErrTagValueTooLong       = errors.New("tag value is too long")
	ErrFailedToUpdateProject = errors.New("failed to update project")
)

const maxTagLength = 25

// ProjectService handles project reads and policy-checked updates.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	tagRepo     repository.TagRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, tagRepo repository.TagRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		tagRepo:     tagRepo,
	}
}

// ListProjects returns the projects visible to the actor.
func (s *ProjectService) ListProjects(actor *models.User, homePageOnly bool) ([]models.Project, error) {
	projects, err := s.projectRepo.ListVisibleTo(actor, homePageOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a visible project. Invisible projects are reported as
// not found.
func (s *ProjectService) GetProject(actor *models.User, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.FindVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput carries a partial project update. Nil fields were not
// submitted. Tags is a full-replacement side channel: nil means untouched,
// an empty slice clears all tags.
type UpdateProjectInput struct {
	Name              *string
	Summary           *string
	Tagline           *string
	Video             *string
	Type              *string
	Year              *int
	Term              *string
	Screenshot        *string
	Presentation      *string
	Review            *string
	WebsiteURL        *string
	SourceCodeURL     *string
	LogoURL           *string
	LogoImage         *string
	Storyboard        *string
	IsPublished       *bool
	DisplayOnHomePage *bool
	Tags              []string
}

// UpdateProject applies the update an actor is allowed to make. Actors with
// no relation to the project are denied outright. For related actors,
// fields outside their role's allow-list are silently dropped before
// validation, so validation errors can only name fields the actor was
// allowed to touch. Tags are writable by any related actor and go through
// tag reconciliation.
func (s *ProjectService) UpdateProject(actor *models.User, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(actor, id)
	if err != nil {
		return nil, err
	}

	role := policy.ProjectRoleOf(actor, project)
	if role == policy.ProjectRoleNone {
		return nil, ErrProjectEditForbidden
	}

	if input.Tags != nil {
		if err := s.reconcileTags(project, input.Tags); err != nil {
			return nil, err
		}
	}

	dropUnwritable(role, &input)

	if err := applyProjectFields(project, input); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToUpdateProject, err)
	}

	return s.GetProject(actor, id)
}

// dropUnwritable removes fields the role may not write. Dropping is silent:
// the rest of the update still applies.
func dropUnwritable(role policy.ProjectRole, input *UpdateProjectInput) {
	if !policy.ProjectFieldWritable(role, policy.FieldIsPublished) {
		input.IsPublished = nil
	}
	if !policy.ProjectFieldWritable(role, policy.FieldDisplayOnHomePage) {
		input.DisplayOnHomePage = nil
	}
	if !policy.ProjectFieldWritable(role, policy.FieldReview) {
		input.Review = nil
	}
}

func applyProjectFields(project *models.Project, input UpdateProjectInput) error {
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return ErrProjectNameEmpty
		}
		project.Name = *input.Name
	}
	if input.Summary != nil {
		project.Summary = *input.Summary
	}
	if input.Tagline != nil {
		project.Tagline = *input.Tagline
	}
	if input.Video != nil {
		project.Video = *input.Video
	}
	if input.Type != nil {
		t := models.ProjectType(*input.Type)
		if !t.Valid() {
			return ErrInvalidProjectType
		}
		project.Type = t
	}
	if input.Year != nil {
		if *input.Year <= 0 {
			return ErrInvalidYear
		}
		project.Year = *input.Year
	}
	if input.Term != nil {
		t := models.Term(*input.Term)
		if !t.Valid() {
			return ErrInvalidTerm
		}
		project.Term = t
	}
	if input.Screenshot != nil {
		project.Screenshot = *input.Screenshot
	}
	if input.Presentation != nil {
		project.Presentation = *input.Presentation
	}
	if input.Review != nil {
		project.Review = *input.Review
	}
	if input.WebsiteURL != nil {
		project.WebsiteURL = *input.WebsiteURL
	}
	if input.SourceCodeURL != nil {
		project.SourceCodeURL = *input.SourceCodeURL
	}
	if input.LogoURL != nil {
		project.LogoURL = *input.LogoURL
	}
	if input.LogoImage != nil {
		project.LogoImage = *input.LogoImage
	}
	if input.Storyboard != nil {
		project.Storyboard = *input.Storyboard
	}
	if input.IsPublished != nil {
		project.IsPublished = *input.IsPublished
	}
	if input.DisplayOnHomePage != nil {
		project.DisplayOnHomePage = *input.DisplayOnHomePage
	}
	return nil
}

// reconcileTags replaces the project's tag set with the submitted values.
// Lookup is case-insensitive and missing tags are created with the
// submitted casing, so the stored casing is whichever variant was created
// first. Submitted duplicates collapse case-insensitively.
func (s *ProjectService) reconcileTags(project *models.Project, values []string) error {
	seen := make(map[string]struct{}, len(values))
	tags := make([]models.Tag, 0, len(values))

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if len(value) > maxTagLength {
			return ErrTagValueTooLong
		}

		folded := strings.ToLower(value)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}

		tag, err := s.tagRepo.FindByValueFold(value)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up tag: %w", err)
			}
			tag = &models.Tag{Value: value}
			if err := s.tagRepo.Create(tag); err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}
		}
		tags = append(tags, *tag)
	}

	if err := s.projectRepo.ReplaceTags(project, tags); err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}
	return nil
}
