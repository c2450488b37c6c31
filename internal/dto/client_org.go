package dto

import (
	"github.com/google/uuid"

	"github.com/campusportal/portal-api/internal/models"
)

// ClientOrgDTO represents a client organization in API responses.
type ClientOrgDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	About       string    `json:"about"`
	Image       string    `json:"image"`
	WebsiteLink string    `json:"website_link"`
	Type        string    `json:"type"`
	Testimonial string    `json:"testimonial"`
	Reps        []UserDTO `json:"reps"`
}

// ClientOrgDetailDTO embeds the org's requester-visible projects.
type ClientOrgDetailDTO struct {
	ClientOrgDTO
	Projects []ProjectDTO `json:"projects"`
}

// ToClientOrgDTO converts an org to its API shape as seen by the actor.
func ToClientOrgDTO(actor *models.User, org models.ClientOrg) ClientOrgDTO {
	dto := ClientOrgDTO{
		ID:          org.ID,
		Name:        org.Name,
		About:       org.About,
		Image:       org.Image,
		WebsiteLink: org.WebsiteLink,
		Type:        org.Type.Display(),
		Testimonial: org.Testimonial,
		Reps:        make([]UserDTO, 0, len(org.Reps)),
	}
	for _, rep := range org.Reps {
		dto.Reps = append(dto.Reps, ToUserDTO(actor, rep))
	}
	return dto
}

// ToClientOrgDetailDTO converts an org plus its visible projects.
func ToClientOrgDetailDTO(actor *models.User, org models.ClientOrg, projects []models.Project) ClientOrgDetailDTO {
	return ClientOrgDetailDTO{
		ClientOrgDTO: ToClientOrgDTO(actor, org),
		Projects:     ToProjectDTOs(actor, projects),
	}
}

// ToClientOrgDTOs converts an org list.
func ToClientOrgDTOs(actor *models.User, orgs []models.ClientOrg) []ClientOrgDTO {
	dtos := make([]ClientOrgDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = ToClientOrgDTO(actor, org)
	}
	return dtos
}
