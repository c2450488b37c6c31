package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/mailer"
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/repository"
	"github.com/campusportal/portal-api/internal/services"
)

func setupProposalTestEnv(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Proposal{}, &models.MailingListEntry{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	m := mailer.NewMailer(silentNotifier{}, "http://localhost:3000/activate/%s", "http://localhost:3000/reset-password/%s")
	proposalService := services.NewProposalService(repository.NewProposalRepository(db), m)
	proposalHandler := NewProposalHandler(proposalService)

	r := gin.New()
	r.POST("/api/proposals", proposalHandler.CreateProposal)
	return db, r
}

func TestCreateProposalEndpoint(t *testing.T) {
	db, router := setupProposalTestEnv(t)

	w := postJSON(t, router, "/api/proposals", map[string]string{
		"rep_name":     "Ray Rep",
		"email":        "ray@acme.com",
		"project_info": "A portal for tracking our projects.",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response models.Proposal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Ray Rep", response.RepName)
	require.Equal(t, "ray@acme.com", response.Email)

	var count int64
	require.NoError(t, db.Model(&models.Proposal{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateProposalEndpoint_MissingFields(t *testing.T) {
	_, router := setupProposalTestEnv(t)

	w := postJSON(t, router, "/api/proposals", map[string]string{
		"rep_name": "Ray Rep",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
