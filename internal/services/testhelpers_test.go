package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/github"
	"github.com/campusportal/portal-api/internal/mailer"
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
		&models.Proposal{},
		&models.MailingListEntry{},
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

// recordingNotifier captures outgoing mail instead of sending it.
type recordingNotifier struct {
	sent []recordedMail
	fail bool
}

type recordedMail struct {
	To      []string
	Subject string
	Body    string
}

func (n *recordingNotifier) Send(to []string, subject, body string) error {
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.sent = append(n.sent, recordedMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestMailer(notifier *recordingNotifier) *mailer.Mailer {
	return mailer.NewMailer(notifier, "http://localhost:3000/activate/%s", "http://localhost:3000/reset-password/%s")
}

// stubProvider returns a fixed GitHub identity for any code.
type stubProvider struct {
	info github.UserInfo
	err  error
}

func (p *stubProvider) ExchangeCode(code string) (github.UserInfo, error) {
	return p.info, p.err
}
