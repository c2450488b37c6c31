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

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns all projects visible to the requester. With
// ?home_page=true only projects flagged for the home page are returned.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	homePageOnly := c.Query("home_page") == "true"

	projects, err := h.projectService.ListProjects(actor, homePageOnly)
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(actor, projects))
}

// GetProject returns one visible project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}

	actor := middleware.CurrentUser(c)
	project, err := h.projectService.GetProject(actor, id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(actor, *project))
}

// UpdateProject applies a partial update subject to the requester's role.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}

	type UpdateRequest struct {
		Name              *string  `json:"name"`
		Summary           *string  `json:"summary"`
		Tagline           *string  `json:"tagline"`
		Video             *string  `json:"video"`
		Type              *string  `json:"type"`
		Year              *int     `json:"year"`
		Term              *string  `json:"term"`
		Screenshot        *string  `json:"screenshot"`
		Presentation      *string  `json:"presentation"`
		Review            *string  `json:"review"`
		WebsiteURL        *string  `json:"website_url"`
		SourceCodeURL     *string  `json:"source_code_url"`
		LogoURL           *string  `json:"logo_url"`
		LogoImage         *string  `json:"logo_image"`
		Storyboard        *string  `json:"storyboard"`
		IsPublished       *bool    `json:"is_published"`
		DisplayOnHomePage *bool    `json:"display_on_home_page"`
		Tags              []string `json:"tags"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor := middleware.CurrentUser(c)
	project, err := h.projectService.UpdateProject(actor, id, services.UpdateProjectInput{
		Name:              req.Name,
		Summary:           req.Summary,
		Tagline:           req.Tagline,
		Video:             req.Video,
		Type:              req.Type,
		Year:              req.Year,
		Term:              req.Term,
		Screenshot:        req.Screenshot,
		Presentation:      req.Presentation,
		Review:            req.Review,
		WebsiteURL:        req.WebsiteURL,
		SourceCodeURL:     req.SourceCodeURL,
		LogoURL:           req.LogoURL,
		LogoImage:         req.LogoImage,
		Storyboard:        req.Storyboard,
		IsPublished:       req.IsPublished,
		DisplayOnHomePage: req.DisplayOnHomePage,
		Tags:              req.Tags,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(actor, *project))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectEditForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectType),
		errors.Is(err, services.ErrInvalidTerm),
		errors.Is(err, services.ErrInvalidYear),
		errors.Is(err, services.ErrProjectNameEmpty),
		errors.Is(err, services.ErrTagValueTooLong):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
