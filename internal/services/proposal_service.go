package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/campusportal/portal-api/internal/mailer"
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/repository"
)

var ErrProposalInvalid = errors.New("proposal is missing required fields")

// ProposalService handles proposal submission and mailing-list notification.
type ProposalService struct {
	proposalRepo repository.ProposalRepository
	mailer       *mailer.Mailer
}

// NewProposalService creates a new ProposalService.
func NewProposalService(proposalRepo repository.ProposalRepository, m *mailer.Mailer) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		mailer:       m,
	}
}

// CreateProposalInput carries a new proposal submission.
type CreateProposalInput struct {
	RepName     string
	Email       string
	ProjectInfo string
	Date        time.Time
}

// CreateProposal stores the proposal and notifies the mailing list. The
// recipient set is re-read at send time; an empty list sends nothing. A
// notification failure does not fail the submission.
func (s *ProposalService) CreateProposal(input CreateProposalInput) (*models.Proposal, error) {
	if input.RepName == "" || input.Email == "" || input.ProjectInfo == "" {
		return nil, ErrProposalInvalid
	}

	proposal := &models.Proposal{
		RepName:     input.RepName,
		Email:       input.Email,
		ProjectInfo: input.ProjectInfo,
		Date:        input.Date,
	}
	if err := s.proposalRepo.Create(proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	recipients, err := s.proposalRepo.ListMailingListEmails()
	if err != nil {
		log.Printf("failed to read proposal mailing list: %v", err)
		return proposal, nil
	}
	if len(recipients) > 0 {
		if err := s.mailer.SendProposalEmail(proposal, recipients); err != nil {
			log.Printf("failed to send proposal email: %v", err)
		}
	}

	return proposal, nil
}
