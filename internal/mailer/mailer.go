package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/campusportal/portal-api/internal/models"
)

// Notifier delivers a single email. Implementations may fail; callers decide
// whether the failure is fatal.
type Notifier interface {
	Send(to []string, subject, body string) error
}

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (n *SMTPNotifier) Send(to []string, subject, body string) error {
	msg := strings.Builder{}
	fmt.Fprintf(&msg, "From: %s\r\n", n.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := n.Host + ":" + n.Port
	var auth smtp.Auth
	if n.User != "" {
		auth = smtp.PlainAuth("", n.User, n.Pass, n.Host)
	}
	if err := smtp.SendMail(addr, auth, n.From, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Mailer composes the portal's emails and hands them to a Notifier.
type Mailer struct {
	notifier Notifier

	// Templates with a single %s placeholder for the key.
	ActivationURLTemplate    string
	ResetPasswordURLTemplate string
}

// NewMailer creates a new Mailer.
func NewMailer(notifier Notifier, activationURLTemplate, resetPasswordURLTemplate string) *Mailer {
	return &Mailer{
		notifier:                 notifier,
		ActivationURLTemplate:    activationURLTemplate,
		ResetPasswordURLTemplate: resetPasswordURLTemplate,
	}
}

// SendActivationEmail sends the account activation link to an unactivated
// user. The caller must not have activated the user yet.
func (m *Mailer) SendActivationEmail(user *models.User) error {
	if user.IsActivated() {
		return fmt.Errorf("user %s is already activated", user.ID)
	}

	activationURL := fmt.Sprintf(m.ActivationURLTemplate, *user.ActivationKey)
	subject := "Projects Portal Account Activation"
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your account on the Projects Portal has been created.\n\n"+
			"To start using the portal, you must activate your account by clicking on the following link:\n\n"+
			"%s\n",
		user.Name, activationURL)

	return m.notifier.Send([]string{user.Email}, subject, body)
}

// SendPasswordResetEmail sends a reset link for the given request.
func (m *Mailer) SendPasswordResetEmail(user *models.User, request *models.PasswordResetRequest) error {
	resetURL := fmt.Sprintf(m.ResetPasswordURLTemplate, request.Key)
	subject := "Reset your password for the Projects Portal"
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"A password reset request was received for your Projects Portal account.\n\n"+
			"To reset your password, click the link below:\n%s\n\n"+
			"If you did not request this, you can ignore this email and your password will remain unchanged.\n",
		user.Name, resetURL)

	return m.notifier.Send([]string{user.Email}, subject, body)
}

// SendProposalEmail notifies the mailing list about a new proposal.
func (m *Mailer) SendProposalEmail(proposal *models.Proposal, recipients []string) error {
	subject := fmt.Sprintf("New project proposal from %s", proposal.RepName)
	body := fmt.Sprintf("NAME: %s\nEMAIL: %s\nDATE: %s\nPROJECT INFO: %s\n%s",
		proposal.RepName,
		proposal.Email,
		proposal.Date.Format("2006-01-02"),
		proposal.ProjectInfo,
		strings.Repeat("--", 20))

	return m.notifier.Send(recipients, subject, body)
}
