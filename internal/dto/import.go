package dto

import (
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/services"
)

// ImportResultDTO reports the outcome of a CSV import or validation run,
// grouping everything the run touched into new and existing sets.
type ImportResultDTO struct {
	NewUsers         []UserDTO      `json:"new_users"`
	ExistingUsers    []UserDTO      `json:"existing_users"`
	NewClientOrgs    []ClientOrgDTO `json:"new_client_orgs"`
	ExistingOrgs     []ClientOrgDTO `json:"existing_client_orgs"`
	NewProjects      []ProjectDTO   `json:"new_projects"`
	ExistingProjects []ProjectDTO   `json:"existing_projects"`
	Errors           []string       `json:"errors"`
	Warnings         []string       `json:"warnings"`
}

// ToImportResultDTO converts an import result as seen by the actor (an
// operator, so embedded user emails are visible to them).
func ToImportResultDTO(actor *models.User, result *services.ImportResult) ImportResultDTO {
	dto := ImportResultDTO{
		NewUsers:         make([]UserDTO, 0, len(result.NewUsers)),
		ExistingUsers:    make([]UserDTO, 0, len(result.ExistingUsers)),
		NewClientOrgs:    ToClientOrgDTOs(actor, result.NewOrgs),
		ExistingOrgs:     ToClientOrgDTOs(actor, result.ExistingOrgs),
		NewProjects:      ToProjectDTOs(actor, result.NewProjects),
		ExistingProjects: ToProjectDTOs(actor, result.ExistingProjects),
		Errors:           result.Errors,
		Warnings:         result.Warnings,
	}
	for _, user := range result.NewUsers {
		dto.NewUsers = append(dto.NewUsers, ToUserDTO(actor, user))
	}
	for _, user := range result.ExistingUsers {
		dto.ExistingUsers = append(dto.ExistingUsers, ToUserDTO(actor, user))
	}
	if dto.Errors == nil {
		dto.Errors = []string{}
	}
	return dto
}
