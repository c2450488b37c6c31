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

// ClientOrgHandler coordinates client-org HTTP handlers.
type ClientOrgHandler struct {
	orgService *services.ClientOrgService
}

// NewClientOrgHandler creates a new ClientOrgHandler.
func NewClientOrgHandler(orgService *services.ClientOrgService) *ClientOrgHandler {
	return &ClientOrgHandler{
		orgService: orgService,
	}
}

// ListOrgs returns all orgs visible to the requester.
func (h *ClientOrgHandler) ListOrgs(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	orgs, err := h.orgService.ListOrgs(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to list orgs")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientOrgDTOs(actor, orgs))
}

// GetOrg returns one visible org with its visible projects embedded.
func (h *ClientOrgHandler) GetOrg(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.NotFound(c, "Client org not found")
		return
	}

	actor := middleware.CurrentUser(c)
	org, err := h.orgService.GetOrg(actor, id)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	projects, err := h.orgService.VisibleProjectsOf(actor, org)
	if err != nil {
		apierrors.InternalError(c, "Failed to load projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientOrgDetailDTO(actor, *org, projects))
}

// UpdateOrg applies a partial update on behalf of a rep or operator.
func (h *ClientOrgHandler) UpdateOrg(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.NotFound(c, "Client org not found")
		return
	}

	type UpdateRequest struct {
		Name        *string `json:"name"`
		About       *string `json:"about"`
		Image       *string `json:"image"`
		WebsiteLink *string `json:"website_link"`
		Type        *string `json:"type"`
		Testimonial *string `json:"testimonial"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor := middleware.CurrentUser(c)
	org, err := h.orgService.UpdateOrg(actor, id, services.UpdateOrgInput{
		Name:        req.Name,
		About:       req.About,
		Image:       req.Image,
		WebsiteLink: req.WebsiteLink,
		Type:        req.Type,
		Testimonial: req.Testimonial,
	})
	if err != nil {
		respondOrgError(c, err)
		return
	}

	projects, err := h.orgService.VisibleProjectsOf(actor, org)
	if err != nil {
		apierrors.InternalError(c, "Failed to load projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientOrgDetailDTO(actor, *org, projects))
}

func respondOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrgNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOrgEditForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidOrgType),
		errors.Is(err, services.ErrOrgNameEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
