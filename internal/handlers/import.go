package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusportal/portal-api/internal/dto"
	apierrors "github.com/campusportal/portal-api/internal/errors"
	"github.com/campusportal/portal-api/internal/middleware"
	"github.com/campusportal/portal-api/internal/services"
)

// ImportHandler coordinates the CSV bulk-import endpoints. Routes using it
// must sit behind RequireOperator.
type ImportHandler struct {
	importService *services.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// Import runs a CSV import, committing on success.
func (h *ImportHandler) Import(c *gin.Context) {
	h.run(c, h.importService.Import)
}

// Validate runs the identical reconciliation but rolls everything back,
// reporting what an import would have done.
func (h *ImportHandler) Validate(c *gin.Context) {
	h.run(c, h.importService.Validate)
}

func (h *ImportHandler) run(c *gin.Context, exec func(r io.Reader) (*services.ImportResult, error)) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "Missing CSV file upload")
		return
	}
	defer file.Close()

	result, err := exec(file)
	if err != nil {
		respondImportError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	resultDTO := dto.ToImportResultDTO(actor, result)
	if len(result.Errors) > 0 {
		c.JSON(http.StatusBadRequest, resultDTO)
		return
	}
	c.JSON(http.StatusOK, resultDTO)
}

func respondImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCSVParse):
		apierrors.ParseError(c, err.Error())
	case errors.Is(err, services.ErrCSVImport):
		apierrors.ImportError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
