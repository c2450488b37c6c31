package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusportal/portal-api/internal/dto"
	apierrors "github.com/campusportal/portal-api/internal/errors"
	"github.com/campusportal/portal-api/internal/middleware"
	"github.com/campusportal/portal-api/internal/services"
)

// UserHandler coordinates user-related HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetCurrentUser returns the session introspection payload. Anonymous
// requests get logged_in false rather than an error.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusOK, dto.CurrentUserDTO{LoggedIn: false})
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrentUserDTO(user))
}

// GetUser returns a user with their requester-visible project lists.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.NotFound(c, "User not found")
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	student, ta, rep, err := h.userService.RelatedProjects(actor, user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(actor, *user, student, ta, rep))
}

// UpdateUser applies a partial update to a user's own profile fields.
// GitHub identity fields are not writable through this endpoint.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.NotFound(c, "User not found")
		return
	}

	type UpdateRequest struct {
		Email        *string `json:"email"`
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		Image        *string `json:"image"`
		WebsiteLink  *string `json:"website_link"`
		LinkedinLink *string `json:"linkedin_link"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.userService.UpdateUser(actor, id, services.UpdateUserInput{
		Email:        req.Email,
		Name:         req.Name,
		Bio:          req.Bio,
		Image:        req.Image,
		WebsiteLink:  req.WebsiteLink,
		LinkedinLink: req.LinkedinLink,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	student, ta, rep, err := h.userService.RelatedProjects(actor, user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(actor, *user, student, ta, rep))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUserEditForbidden):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
