package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusportal/portal-api/internal/models"
)

type captureNotifier struct {
	to      []string
	subject string
	body    string
}

func (n *captureNotifier) Send(to []string, subject, body string) error {
	n.to = to
	n.subject = subject
	n.body = body
	return nil
}

func TestSendActivationEmail(t *testing.T) {
	notifier := &captureNotifier{}
	m := NewMailer(notifier, "http://portal.test/activate/%s", "http://portal.test/reset/%s")

	key := "the-activation-key"
	user := &models.User{Email: "pending@example.com", Name: "Pending", ActivationKey: &key}

	require.NoError(t, m.SendActivationEmail(user))
	require.Equal(t, []string{"pending@example.com"}, notifier.to)
	require.Contains(t, notifier.body, "http://portal.test/activate/the-activation-key")
}

func TestSendActivationEmail_RejectsActivatedUser(t *testing.T) {
	m := NewMailer(&captureNotifier{}, "http://portal.test/activate/%s", "http://portal.test/reset/%s")

	user := &models.User{Email: "done@example.com", Name: "Done"}
	require.Error(t, m.SendActivationEmail(user))
}

func TestSendPasswordResetEmail(t *testing.T) {
	notifier := &captureNotifier{}
	m := NewMailer(notifier, "http://portal.test/activate/%s", "http://portal.test/reset/%s")

	user := &models.User{Email: "alice@example.com", Name: "Alice"}
	request := &models.PasswordResetRequest{Key: "the-reset-key"}

	require.NoError(t, m.SendPasswordResetEmail(user, request))
	require.Equal(t, []string{"alice@example.com"}, notifier.to)
	require.Contains(t, notifier.body, "http://portal.test/reset/the-reset-key")
}
