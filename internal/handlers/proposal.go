package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/campusportal/portal-api/internal/errors"
	"github.com/campusportal/portal-api/internal/services"
)

// ProposalHandler coordinates proposal HTTP handlers.
type ProposalHandler struct {
	proposalService *services.ProposalService
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
	}
}

// CreateProposal accepts a project pitch from an (unauthenticated)
// prospective client.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	type CreateRequest struct {
		RepName     string `json:"rep_name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		ProjectInfo string `json:"project_info" binding:"required"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.CreateProposal(services.CreateProposalInput{
		RepName:     req.RepName,
		Email:       req.Email,
		ProjectInfo: req.ProjectInfo,
		Date:        time.Now(),
	})
	if err != nil {
		if errors.Is(err, services.ErrProposalInvalid) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create proposal")
		return
	}

	c.JSON(http.StatusOK, proposal)
}
