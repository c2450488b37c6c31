package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.ClientOrg{},
		&models.Project{},
		&models.Tag{},
		&models.PasswordResetRequest{},
		&models.AuthToken{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Create(value).Error)
}

func projectNames(projects []models.Project) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

func TestProjectVisibility(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)

	student := &models.User{Email: "student@example.com"}
	ta := &models.User{Email: "ta@example.com"}
	rep := &models.User{Email: "rep@example.com"}
	outsider := &models.User{Email: "outsider@example.com"}
	operator := &models.User{Email: "admin@example.com", IsSuperuser: true}
	for _, u := range []*models.User{student, ta, rep, outsider, operator} {
		mustCreate(t, db, u)
	}

	mustCreate(t, db, &models.Project{Name: "Published", Year: 2025, IsPublished: true})
	mustCreate(t, db, &models.Project{Name: "Student Draft", Year: 2025, Students: []models.User{*student}})
	mustCreate(t, db, &models.Project{Name: "TA Draft", Year: 2025, TAID: &ta.ID})
	mustCreate(t, db, &models.Project{Name: "Rep Draft", Year: 2025, ClientRepID: &rep.ID})

	cases := []struct {
		name  string
		actor *models.User
		want  []string
	}{
		{"anonymous", nil, []string{"Published"}},
		{"outsider", outsider, []string{"Published"}},
		{"student", student, []string{"Published", "Student Draft"}},
		{"ta", ta, []string{"Published", "TA Draft"}},
		{"rep", rep, []string{"Published", "Rep Draft"}},
		{"operator", operator, []string{"Published", "Student Draft", "TA Draft", "Rep Draft"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			projects, err := repo.ListVisibleTo(tc.actor, false)
			require.NoError(t, err)
			require.ElementsMatch(t, tc.want, projectNames(projects))
		})
	}
}

func TestFindVisibleByID_HidesInvisibleProjects(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)

	outsider := &models.User{Email: "outsider@example.com"}
	mustCreate(t, db, outsider)

	draft := &models.Project{Name: "Draft", Year: 2025}
	mustCreate(t, db, draft)

	_, err := repo.FindVisibleByID(outsider, draft.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindVisibleByID(nil, draft.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrgVisibility(t *testing.T) {
	db := newTestDB(t)
	repo := NewClientOrgRepository(db)

	rep := &models.User{Email: "rep@example.com"}
	outsider := &models.User{Email: "outsider@example.com"}
	operator := &models.User{Email: "admin@example.com", IsSuperuser: true}
	for _, u := range []*models.User{rep, outsider, operator} {
		mustCreate(t, db, u)
	}

	public := &models.ClientOrg{Name: "Public Org"}
	hidden := &models.ClientOrg{Name: "Hidden Org", Reps: []models.User{*rep}}
	orphan := &models.ClientOrg{Name: "Orphan Org"}
	for _, o := range []*models.ClientOrg{public, hidden, orphan} {
		mustCreate(t, db, o)
	}

	mustCreate(t, db, &models.Project{Name: "Published", Year: 2025, IsPublished: true, ClientOrgID: &public.ID})
	mustCreate(t, db, &models.Project{Name: "Draft", Year: 2025, ClientOrgID: &hidden.ID})

	names := func(orgs []models.ClientOrg) []string {
		out := make([]string, len(orgs))
		for i, o := range orgs {
			out[i] = o.Name
		}
		return out
	}

	// An org is visible through its visible projects or rep membership.
	orgs, err := repo.ListVisibleTo(nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Public Org"}, names(orgs))

	orgs, err = repo.ListVisibleTo(outsider)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Public Org"}, names(orgs))

	orgs, err = repo.ListVisibleTo(rep)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Public Org", "Hidden Org"}, names(orgs))

	orgs, err = repo.ListVisibleTo(operator)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Public Org", "Hidden Org", "Orphan Org"}, names(orgs))
}

func TestListVisibleRelatedTo(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)

	user := &models.User{Email: "busy@example.com"}
	viewer := &models.User{Email: "viewer@example.com"}
	mustCreate(t, db, user)
	mustCreate(t, db, viewer)

	mustCreate(t, db, &models.Project{Name: "As Student", Year: 2025, IsPublished: true, Students: []models.User{*user}})
	mustCreate(t, db, &models.Project{Name: "As TA", Year: 2025, IsPublished: true, TAID: &user.ID})
	mustCreate(t, db, &models.Project{Name: "As Rep", Year: 2025, IsPublished: true, ClientRepID: &user.ID})
	// Invisible to the viewer, so it must not leak through the grouping.
	mustCreate(t, db, &models.Project{Name: "Secret TA Work", Year: 2025, TAID: &user.ID})

	student, ta, rep, err := repo.ListVisibleRelatedTo(viewer, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"As Student"}, projectNames(student))
	require.Equal(t, []string{"As TA"}, projectNames(ta))
	require.Equal(t, []string{"As Rep"}, projectNames(rep))
}
