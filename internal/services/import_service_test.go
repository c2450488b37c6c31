package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/repository"
)

const csvHeader = "project_name,project_year,project_term,client_org_name," +
	"client_rep_email,client_rep_name,client_rep_github_username," +
	"ta_email,ta_name,ta_github_username," +
	"student_email,student_name,student_github_username"

func importCSV(rows ...string) *strings.Reader {
	return strings.NewReader(csvHeader + "\n" + strings.Join(rows, "\n") + "\n")
}

func newImportService(t *testing.T, db *gorm.DB) (*ImportService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	return NewImportService(db, newTestMailer(notifier)), notifier
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestImport_CreatesUsersOrgsAndProjects(t *testing.T) {
	db := newTestDB(t)
	svc, notifier := newImportService(t, db)

	result, err := svc.Import(importCSV(
		"Portal,2025,F,Acme Corp," +
			"rep@acme.com,Ray Rep,," +
			"ta@school.edu,Tina TA,," +
			"student@school.edu,Sam Student,samdev",
	))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.NewUsers, 3)
	require.Len(t, result.NewOrgs, 1)
	require.Len(t, result.NewProjects, 1)
	require.Empty(t, result.ExistingUsers)

	// The linked project carries the org, rep, TA, and student.
	project, err := repository.NewProjectRepository(db).FindVisibleByID(
		&models.User{IsSuperuser: true}, result.NewProjects[0].ID)
	require.NoError(t, err)
	require.False(t, project.IsPublished)
	require.EqualValues(t, 2025, project.Year)
	require.NotNil(t, project.ClientOrgID)
	require.NotNil(t, project.TAID)
	require.NotNil(t, project.ClientRepID)
	require.Len(t, project.Students, 1)
	require.Equal(t, "student@school.edu", project.Students[0].Email)

	// The rep joined the org's representative set.
	org, err := repository.NewClientOrgRepository(db).FindByName("Acme Corp")
	require.NoError(t, err)
	rep, err := repository.NewUserRepository(db).FindByEmail("rep@acme.com")
	require.NoError(t, err)
	require.True(t, rep.IsRepOf(mustLoadReps(t, db, org)))

	// Users without a GitHub identity get activation emails; the student
	// logs in via GitHub and gets none.
	require.Len(t, notifier.sent, 2)
	student, err := repository.NewUserRepository(db).FindByEmail("student@school.edu")
	require.NoError(t, err)
	require.Nil(t, student.ActivationKey)
	require.Equal(t, "samdev", student.GithubUsername)
	require.NotNil(t, rep.ActivationKey)
}

func mustLoadReps(t *testing.T, db *gorm.DB, org *models.ClientOrg) *models.ClientOrg {
	t.Helper()
	var loaded models.ClientOrg
	require.NoError(t, db.Preload("Reps").First(&loaded, "id = ?", org.ID).Error)
	return &loaded
}

func TestImport_SecondRunReportsExisting(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	row := "Portal,2025,F,Acme Corp," +
		"rep@acme.com,Ray Rep,," +
		"ta@school.edu,Tina TA,," +
		"student@school.edu,Sam Student,samdev"

	_, err := svc.Import(importCSV(row))
	require.NoError(t, err)

	result, err := svc.Import(importCSV(row))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Empty(t, result.NewUsers)
	require.Empty(t, result.NewOrgs)
	require.Empty(t, result.NewProjects)
	require.Len(t, result.ExistingUsers, 3)
	require.Len(t, result.ExistingOrgs, 1)
	require.Len(t, result.ExistingProjects, 1)

	// Membership is set-like: re-linking does not duplicate rows.
	require.EqualValues(t, 3, countRows(t, db, &models.User{}))
	project, err := repository.NewProjectRepository(db).FindVisibleByID(
		&models.User{IsSuperuser: true}, result.ExistingProjects[0].ID)
	require.NoError(t, err)
	require.Len(t, project.Students, 1)
}

func TestImport_NameCollisionRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	// Same display name, different email: ambiguous, so the run aborts.
	require.NoError(t, db.Create(&models.User{Email: "other@school.edu", Name: "Sam Student"}).Error)

	result, err := svc.Import(importCSV(
		"Portal,2025,F,Acme Corp," +
			"rep@acme.com,Ray Rep,," +
			"ta@school.edu,Tina TA,," +
			"student@school.edu,Sam Student,samdev",
	))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "Sam Student")

	// All-or-nothing: nothing from the run survives.
	require.EqualValues(t, 1, countRows(t, db, &models.User{}))
	require.EqualValues(t, 0, countRows(t, db, &models.ClientOrg{}))
	require.EqualValues(t, 0, countRows(t, db, &models.Project{}))
}

func TestImport_ActivationEmailFailureRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc, notifier := newImportService(t, db)
	notifier.fail = true

	// The rep and TA have no GitHub identity, so their activation emails
	// must go out for the import to commit.
	_, err := svc.Import(importCSV(
		"Portal,2025,F,Acme Corp," +
			"rep@acme.com,Ray Rep,," +
			"ta@school.edu,Tina TA,," +
			"student@school.edu,Sam Student,samdev",
	))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCSVImport)

	require.EqualValues(t, 0, countRows(t, db, &models.User{}))
	require.EqualValues(t, 0, countRows(t, db, &models.ClientOrg{}))
	require.EqualValues(t, 0, countRows(t, db, &models.Project{}))
}

func TestImport_GithubUsernameCollisionAborts(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	require.NoError(t, db.Create(&models.User{Email: "other@school.edu", Name: "Other", GithubUsername: "samdev"}).Error)

	result, err := svc.Import(importCSV(
		"Portal,2025,F,Acme Corp," +
			"rep@acme.com,Ray Rep,," +
			"ta@school.edu,Tina TA,," +
			"student@school.edu,Sam Student,samdev",
	))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "samdev")
	require.EqualValues(t, 0, countRows(t, db, &models.Project{}))
}

func TestValidate_ReportsButWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	result, err := svc.Validate(importCSV(
		"Portal,2025,F,Acme Corp," +
			"rep@acme.com,Ray Rep,," +
			"ta@school.edu,Tina TA,," +
			"student@school.edu,Sam Student,samdev",
	))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.NewUsers, 3)
	require.Len(t, result.NewOrgs, 1)
	require.Len(t, result.NewProjects, 1)

	require.EqualValues(t, 0, countRows(t, db, &models.User{}))
	require.EqualValues(t, 0, countRows(t, db, &models.ClientOrg{}))
	require.EqualValues(t, 0, countRows(t, db, &models.Project{}))
}

func TestImport_LastLinkRowWins(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	result, err := svc.Import(importCSV(
		"Portal,2025,F,Acme Corp,"+
			"rep@acme.com,Ray Rep,,"+
			"ta@school.edu,Tina TA,,"+
			"alice@school.edu,Alice A,aliceadev",
		"Portal,2025,F,Globex,"+
			"rep2@globex.com,Rita Rep,,"+
			"ta2@school.edu,Tom TA,,"+
			"bob@school.edu,Bob B,bobdev",
	))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.NewProjects, 1)

	project, err := repository.NewProjectRepository(db).FindVisibleByID(
		&models.User{IsSuperuser: true}, result.NewProjects[0].ID)
	require.NoError(t, err)

	// Singular links follow the later row; students accumulate.
	require.NotNil(t, project.ClientOrg)
	require.Equal(t, "Globex", project.ClientOrg.Name)
	require.NotNil(t, project.ClientRep)
	require.Equal(t, "rep2@globex.com", project.ClientRep.Email)
	require.Len(t, project.Students, 2)
}

func TestImport_MissingColumnIsParseError(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	_, err := svc.Import(strings.NewReader("project_name,project_year\nPortal,2025\n"))
	require.ErrorIs(t, err, ErrCSVParse)
}

func TestImport_BadYearIsParseError(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newImportService(t, db)

	_, err := svc.Import(importCSV(
		"Portal,not-a-year,F,Acme Corp," +
			"rep@acme.com,Ray Rep,," +
			"ta@school.edu,Tina TA,," +
			"student@school.edu,Sam Student,samdev",
	))
	require.ErrorIs(t, err, ErrCSVParse)
}
