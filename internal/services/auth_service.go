package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/github"
	"github.com/campusportal/portal-api/internal/mailer"
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/policy"
	"github.com/campusportal/portal-api/internal/repository"
)

var (
	ErrInvalidCredentials       = errors.New("incorrect email or password")
	ErrNoLinkedAccount          = errors.New("no account exists that is associated with that GitHub user")
	ErrProviderFailure          = errors.New("GitHub authentication failed")
	ErrInvalidActivationKey     = errors.New("invalid activation key")
	ErrAlreadyActivated         = errors.New("account is already activated")
	ErrInvalidResetKey          = errors.New("invalid reset key")
	ErrPasswordUnacceptable     = errors.New("password does not meet requirements")
	ErrCurrentPasswordRequired  = errors.New("current password is required")
	ErrIncorrectCurrentPassword = errors.New("incorrect current password")
	ErrFailedToHashPassword     = errors.New("failed to hash password")
)

// PasswordValidationError carries the individual reasons a candidate
// password was rejected.
type PasswordValidationError struct {
	Reasons []string
}

func (e *PasswordValidationError) Error() string {
	return strings.Join(e.Reasons, "\n")
}

func (e *PasswordValidationError) Unwrap() error {
	return ErrPasswordUnacceptable
}

// PasswordValidator decides whether a candidate password is acceptable for a
// user, returning every reason it is not.
type PasswordValidator func(candidate string, user *models.User) []string

// AuthService handles login, account activation, and the password reset
// state machine.
type AuthService struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	resetRepo        repository.PasswordResetRepository
	tokenRepo        repository.AuthTokenRepository
	mailer           *mailer.Mailer
	provider         github.IdentityProvider
	validatePassword PasswordValidator
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, m *mailer.Mailer, provider github.IdentityProvider) *AuthService {
	return &AuthService{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		resetRepo:        repository.NewPasswordResetRepository(db),
		tokenRepo:        repository.NewAuthTokenRepository(db),
		mailer:           m,
		provider:         provider,
		validatePassword: policy.ValidatePassword,
	}
}

// LoginWithEmail verifies an email/password pair and returns the user.
func (s *AuthService) LoginWithEmail(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasUsablePassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// LoginWithGithub resolves a GitHub OAuth2 code to a portal user.
// Resolution order: exact GitHub user ID match (refreshes the stored
// username), then username match on users with no stored GitHub user ID.
// A username match on a user holding a different GitHub user ID fails
// closed so a username collision cannot hijack the account.
func (s *AuthService) LoginWithGithub(code string) (*models.User, error) {
	info, err := s.provider.ExchangeCode(code)
	if err != nil {
		log.Printf("GitHub login failed: %v", err)
		return nil, ErrProviderFailure
	}

	user, err := s.userRepo.FindByGithubUserID(info.ID)
	if err == nil {
		user.GithubUsername = info.Username
		if err := s.userRepo.Save(user); err != nil {
			return nil, fmt.Errorf("failed to update github username: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user by github id: %w", err)
	}

	user, err = s.userRepo.FindByUnlinkedGithubUsername(info.Username)
	if err == nil {
		githubID := info.ID
		user.GithubUserID = &githubID
		if err := s.userRepo.Save(user); err != nil {
			return nil, fmt.Errorf("failed to attach github id: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user by github username: %w", err)
	}

	return nil, ErrNoLinkedAccount
}

// IssueToken returns the user's login token, creating one if needed.
func (s *AuthService) IssueToken(user *models.User) (*models.AuthToken, error) {
	token, err := s.tokenRepo.GetOrCreate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// GetUserByToken resolves a token key to its user.
func (s *AuthService) GetUserByToken(key string) (*models.User, error) {
	token, err := s.tokenRepo.FindByKey(key)
	if err != nil {
		return nil, err
	}
	return &token.User, nil
}

// Activate activates an unactivated user identified by activation key,
// setting their first password and clearing the key. Presenting the flow
// with an already-activated user is a hard error.
func (s *AuthService) Activate(activationKey, password string) (*models.User, error) {
	user, err := s.userRepo.FindByActivationKey(activationKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidActivationKey
		}
		return nil, fmt.Errorf("failed to find user by activation key: %w", err)
	}

	if err := s.activate(s.userRepo, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// activate validates the candidate password, sets it as the user's
// credential, and clears the activation key.
func (s *AuthService) activate(userRepo repository.UserRepository, user *models.User, password string) error {
	if user.IsActivated() {
		return ErrAlreadyActivated
	}

	if reasons := s.validatePassword(password, user); len(reasons) > 0 {
		return &PasswordValidationError{Reasons: reasons}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	user.ActivationKey = nil
	if err := userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	return nil
}

// ResetPasswordWithKey redeems a usable reset key: the new password is set,
// the request is consumed, and every existing login token for the user is
// revoked. The redemption runs in one transaction; the mark-used write is
// conditioned on the request being unused, so a key can be redeemed once.
func (s *AuthService) ResetPasswordWithKey(resetKey, newPassword string) (*models.User, error) {
	request, err := s.resetRepo.FindByKey(resetKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetKey
		}
		return nil, fmt.Errorf("failed to find reset request: %w", err)
	}
	if !request.IsUsable(time.Now()) {
		return nil, ErrInvalidResetKey
	}

	user := &request.User

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txUsers := repository.NewUserRepository(tx)
		txResets := repository.NewPasswordResetRepository(tx)
		txTokens := repository.NewAuthTokenRepository(tx)

		// Claim the request first so racing redemptions serialize on the
		// conditional used_at write.
		if err := txResets.MarkUsed(request, time.Now()); err != nil {
			if errors.Is(err, repository.ErrResetRequestAlreadyUsed) {
				return ErrInvalidResetKey
			}
			return err
		}

		if !user.IsActivated() {
			return s.activate(txUsers, user, newPassword)
		}

		if err := s.setPassword(txUsers, user, newPassword); err != nil {
			return err
		}
		return txTokens.DeleteAllForUser(user.ID)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPasswordWithCurrentPassword changes the password of a logged-in
// user. Users with an existing credential must present it; users without
// one (OAuth-only accounts) skip the check. Unactivated users are activated
// instead.
func (s *AuthService) ResetPasswordWithCurrentPassword(user *models.User, currentPassword *string, newPassword string) error {
	if !user.IsActivated() {
		return s.activate(s.userRepo, user, newPassword)
	}

	if user.HasUsablePassword() {
		if currentPassword == nil {
			return ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*currentPassword)); err != nil {
			return ErrIncorrectCurrentPassword
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txUsers := repository.NewUserRepository(tx)
		txTokens := repository.NewAuthTokenRepository(tx)

		if err := s.setPassword(txUsers, user, newPassword); err != nil {
			return err
		}
		return txTokens.DeleteAllForUser(user.ID)
	})
}

func (s *AuthService) setPassword(userRepo repository.UserRepository, user *models.User, newPassword string) error {
	if reasons := s.validatePassword(newPassword, user); len(reasons) > 0 {
		return &PasswordValidationError{Reasons: reasons}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	return userRepo.Save(user)
}

// PerformPasswordResetRequest creates a reset request for the given email
// and mails the reset link. No-op when the email is unknown. Callers must
// run this after the response has been written: the caller-visible outcome
// never depends on whether the email exists.
func (s *AuthService) PerformPasswordResetRequest(email string) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("password reset request lookup failed: %v", err)
		}
		return
	}

	request := &models.PasswordResetRequest{UserID: user.ID}
	if err := s.resetRepo.Create(request); err != nil {
		log.Printf("failed to create password reset request: %v", err)
		return
	}

	if err := s.mailer.SendPasswordResetEmail(user, request); err != nil {
		log.Printf("failed to send password reset email: %v", err)
	}
}

// InvalidateOtherSessions revokes every login token the user holds and
// issues a fresh one for the requesting session.
func (s *AuthService) InvalidateOtherSessions(user *models.User) (*models.AuthToken, error) {
	if err := s.tokenRepo.DeleteAllForUser(user.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return s.IssueToken(user)
}

// PruneResetRequests sweeps expired and used reset requests. Advisory only;
// usability is always recomputed from timestamps.
func (s *AuthService) PruneResetRequests() error {
	return s.resetRepo.PruneUnusable(time.Now())
}
