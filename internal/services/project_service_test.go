package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/repository"
)

func newProjectService(db *gorm.DB) *ProjectService {
	return NewProjectService(repository.NewProjectRepository(db), repository.NewTagRepository(db))
}

func createProject(t *testing.T, db *gorm.DB, project *models.Project) *models.Project {
	t.Helper()
	require.NoError(t, db.Create(project).Error)
	return project
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestGetProject_InvisibleIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	hidden := createProject(t, db, &models.Project{Name: "Secret", Year: 2025})
	outsider := createUser(t, db, "outsider@example.com")

	_, err := svc.GetProject(nil, hidden.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, err = svc.GetProject(outsider, hidden.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateProject_UnrelatedActorDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	project := createProject(t, db, &models.Project{Name: "Portal", Year: 2025, IsPublished: true})
	outsider := createUser(t, db, "outsider@example.com")

	_, err := svc.UpdateProject(outsider, project.ID, UpdateProjectInput{Name: strPtr("Taken Over")})
	require.ErrorIs(t, err, ErrProjectEditForbidden)

	_, err = svc.UpdateProject(nil, project.ID, UpdateProjectInput{Name: strPtr("Taken Over")})
	require.ErrorIs(t, err, ErrProjectEditForbidden)
}

func TestUpdateProject_StudentFieldsFiltered(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	student := createUser(t, db, "student@example.com")
	project := createProject(t, db, &models.Project{
		Name:     "Portal",
		Year:     2025,
		Review:   "original review",
		Students: []models.User{*student},
	})

	// A student submitting both a writable and an unwritable field: the
	// writable one applies, the rest drop silently.
	updated, err := svc.UpdateProject(student, project.ID, UpdateProjectInput{
		Name:        strPtr("Portal v2"),
		Review:      strPtr("five stars, would submit again"),
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, "Portal v2", updated.Name)
	require.Equal(t, "original review", updated.Review)
	require.False(t, updated.IsPublished)
}

func TestUpdateProject_ClientRepCannotPublish(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	rep := createUser(t, db, "rep@example.com")
	project := createProject(t, db, &models.Project{
		Name:        "Portal",
		Year:        2025,
		ClientRepID: &rep.ID,
	})

	updated, err := svc.UpdateProject(rep, project.ID, UpdateProjectInput{
		Review:      strPtr("glowing"),
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, "glowing", updated.Review)
	require.False(t, updated.IsPublished)
}

func TestUpdateProject_TAWritesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	ta := createUser(t, db, "ta@example.com")
	project := createProject(t, db, &models.Project{
		Name: "Portal",
		Year: 2025,
		TAID: &ta.ID,
	})

	updated, err := svc.UpdateProject(ta, project.ID, UpdateProjectInput{
		IsPublished:       boolPtr(true),
		DisplayOnHomePage: boolPtr(true),
		Review:            strPtr("approved"),
		Term:              strPtr("F"),
	})
	require.NoError(t, err)
	require.True(t, updated.IsPublished)
	require.True(t, updated.DisplayOnHomePage)
	require.Equal(t, "approved", updated.Review)
	require.Equal(t, models.TermFall, updated.Term)
}

func TestUpdateProject_OperatorActsAsTA(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	operator := &models.User{Email: "admin@example.com", IsSuperuser: true}
	require.NoError(t, db.Create(operator).Error)

	project := createProject(t, db, &models.Project{Name: "Portal", Year: 2025})

	updated, err := svc.UpdateProject(operator, project.ID, UpdateProjectInput{
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, updated.IsPublished)
}

func TestUpdateProject_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	ta := createUser(t, db, "ta@example.com")
	project := createProject(t, db, &models.Project{Name: "Portal", Year: 2025, TAID: &ta.ID})

	_, err := svc.UpdateProject(ta, project.ID, UpdateProjectInput{Term: strPtr("X")})
	require.ErrorIs(t, err, ErrInvalidTerm)

	_, err = svc.UpdateProject(ta, project.ID, UpdateProjectInput{Type: strPtr("VR")})
	require.ErrorIs(t, err, ErrInvalidProjectType)

	year := -1
	_, err = svc.UpdateProject(ta, project.ID, UpdateProjectInput{Year: &year})
	require.ErrorIs(t, err, ErrInvalidYear)

	_, err = svc.UpdateProject(ta, project.ID, UpdateProjectInput{Name: strPtr("   ")})
	require.ErrorIs(t, err, ErrProjectNameEmpty)
}

func TestUpdateProject_TagReconciliation(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	ta := createUser(t, db, "ta@example.com")
	project := createProject(t, db, &models.Project{Name: "Portal", Year: 2025, TAID: &ta.ID})

	// An existing tag fixes the stored casing for all later variants.
	require.NoError(t, db.Create(&models.Tag{Value: "Python"}).Error)

	updated, err := svc.UpdateProject(ta, project.ID, UpdateProjectInput{
		Tags: []string{"python", "PYTHON", "Python", "django"},
	})
	require.NoError(t, err)

	values := make([]string, 0, len(updated.Tags))
	for _, tag := range updated.Tags {
		values = append(values, tag.Value)
	}
	require.ElementsMatch(t, []string{"Python", "django"}, values)

	// Only one tag row exists for the three casings.
	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestUpdateProject_EmptyTagListClears(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	ta := createUser(t, db, "ta@example.com")
	project := createProject(t, db, &models.Project{
		Name: "Portal",
		Year: 2025,
		TAID: &ta.ID,
		Tags: []models.Tag{{Value: "golang"}},
	})

	// Nil leaves tags untouched.
	updated, err := svc.UpdateProject(ta, project.ID, UpdateProjectInput{Name: strPtr("Portal v2")})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)

	// An empty list clears them.
	updated, err = svc.UpdateProject(ta, project.ID, UpdateProjectInput{Tags: []string{}})
	require.NoError(t, err)
	require.Empty(t, updated.Tags)
}

func TestUpdateProject_TagTooLong(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	ta := createUser(t, db, "ta@example.com")
	project := createProject(t, db, &models.Project{Name: "Portal", Year: 2025, TAID: &ta.ID})

	_, err := svc.UpdateProject(ta, project.ID, UpdateProjectInput{
		Tags: []string{"this-tag-value-is-way-too-long"},
	})
	require.ErrorIs(t, err, ErrTagValueTooLong)
}

func TestListProjects_HomePageFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newProjectService(db)

	createProject(t, db, &models.Project{Name: "Front", Year: 2025, IsPublished: true, DisplayOnHomePage: true})
	createProject(t, db, &models.Project{Name: "Plain", Year: 2025, IsPublished: true})

	all, err := svc.ListProjects(nil, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	featured, err := svc.ListProjects(nil, true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, "Front", featured[0].Name)
}
