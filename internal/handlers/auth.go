package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/campusportal/portal-api/internal/constants"
	"github.com/campusportal/portal-api/internal/dto"
	apierrors "github.com/campusportal/portal-api/internal/errors"
	"github.com/campusportal/portal-api/internal/middleware"
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginWithEmail authenticates with an email/password pair.
func (h *AuthHandler) LoginWithEmail(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.LoginWithEmail(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.finishLogin(c, user)
}

// LoginWithGithub authenticates with a GitHub OAuth2 authorization code.
func (h *AuthHandler) LoginWithGithub(c *gin.Context) {
	type LoginRequest struct {
		Code string `json:"code" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.LoginWithGithub(req.Code)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.finishLogin(c, user)
}

// finishLogin issues the login token, binds it to the session cookie, and
// writes the login envelope.
func (h *AuthHandler) finishLogin(c *gin.Context, user *models.User) {
	token, err := h.authService.IssueToken(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token.Key)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginDTO(user, token))
}

// Activate sets the first password of an unactivated account.
func (h *AuthHandler) Activate(c *gin.Context) {
	type ActivateRequest struct {
		ActivationKey string `json:"activation_key" binding:"required"`
		Password      string `json:"password" binding:"required"`
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Activate(req.ActivationKey, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.finishLogin(c, user)
}

// ResetPassword changes a password either by redeeming a reset key or, for
// a logged-in user, by presenting the current password. An unactivated
// logged-in user is activated instead.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetRequest struct {
		ResetKey        *string `json:"reset_key"`
		CurrentPassword *string `json:"current_password"`
		NewPassword     string  `json:"new_password" binding:"required"`
	}

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.ResetKey != nil {
		user, err := h.authService.ResetPasswordWithKey(*req.ResetKey, req.NewPassword)
		if err != nil {
			respondAuthError(c, err)
			return
		}
		h.finishLogin(c, user)
		return
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	if err := h.authService.ResetPasswordWithCurrentPassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}
	h.finishLogin(c, user)
}

// RequestPasswordReset accepts an email address and always reports success.
// The lookup and the reset email happen after the response is written so the
// outcome never reveals whether an account exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	type ResetRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})

	go h.authService.PerformPasswordResetRequest(req.Email)
}

// LogoutAll revokes every login token the user holds and rebinds the
// session to a fresh one.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	token, err := h.authService.InvalidateOtherSessions(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to revoke sessions")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token.Key)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token.Key})
}

func respondAuthError(c *gin.Context, err error) {
	var validationErr *services.PasswordValidationError
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNoLinkedAccount),
		errors.Is(err, services.ErrProviderFailure):
		apierrors.LoginFailed(c, err.Error())
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, "Password does not meet requirements", validationErr.Reasons)
	case errors.Is(err, services.ErrInvalidActivationKey),
		errors.Is(err, services.ErrAlreadyActivated),
		errors.Is(err, services.ErrInvalidResetKey),
		errors.Is(err, services.ErrCurrentPasswordRequired),
		errors.Is(err, services.ErrIncorrectCurrentPassword):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
