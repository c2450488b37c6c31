package dto

import (
	"github.com/google/uuid"

	"github.com/campusportal/portal-api/internal/models"
)

// ProjectDTO represents a project in API responses. Choice fields carry
// their display names, tags their plain values.
type ProjectDTO struct {
	ID                uuid.UUID     `json:"id"`
	Name              string        `json:"name"`
	Summary           string        `json:"summary"`
	Tagline           string        `json:"tagline"`
	Video             string        `json:"video"`
	Type              string        `json:"type"`
	Year              int           `json:"year"`
	Term              string        `json:"term"`
	IsPublished       bool          `json:"is_published"`
	DisplayOnHomePage bool          `json:"display_on_home_page"`
	Screenshot        string        `json:"screenshot"`
	Presentation      string        `json:"presentation"`
	Review            string        `json:"review"`
	WebsiteURL        string        `json:"website_url"`
	SourceCodeURL     string        `json:"source_code_url"`
	LogoURL           string        `json:"logo_url"`
	LogoImage         string        `json:"logo_image"`
	Storyboard        string        `json:"storyboard"`
	Tags              []string      `json:"tags"`
	Students          []UserDTO     `json:"students"`
	TA                *UserDTO      `json:"ta"`
	ClientRep         *UserDTO      `json:"client_rep"`
	ClientOrg         *ClientOrgDTO `json:"client_org"`
}

// ToProjectDTO converts a project to its API shape as seen by the actor.
// Relations that are not loaded render as null / empty lists.
func ToProjectDTO(actor *models.User, project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:                project.ID,
		Name:              project.Name,
		Summary:           project.Summary,
		Tagline:           project.Tagline,
		Video:             project.Video,
		Type:              project.Type.Display(),
		Year:              project.Year,
		Term:              project.Term.Display(),
		IsPublished:       project.IsPublished,
		DisplayOnHomePage: project.DisplayOnHomePage,
		Screenshot:        project.Screenshot,
		Presentation:      project.Presentation,
		Review:            project.Review,
		WebsiteURL:        project.WebsiteURL,
		SourceCodeURL:     project.SourceCodeURL,
		LogoURL:           project.LogoURL,
		LogoImage:         project.LogoImage,
		Storyboard:        project.Storyboard,
		Tags:              make([]string, 0, len(project.Tags)),
		Students:          make([]UserDTO, 0, len(project.Students)),
	}
	for _, tag := range project.Tags {
		dto.Tags = append(dto.Tags, tag.Value)
	}
	for _, student := range project.Students {
		dto.Students = append(dto.Students, ToUserDTO(actor, student))
	}
	if project.TA != nil {
		ta := ToUserDTO(actor, *project.TA)
		dto.TA = &ta
	}
	if project.ClientRep != nil {
		rep := ToUserDTO(actor, *project.ClientRep)
		dto.ClientRep = &rep
	}
	if project.ClientOrg != nil {
		org := ToClientOrgDTO(actor, *project.ClientOrg)
		dto.ClientOrg = &org
	}
	return dto
}

// ToProjectDTOs converts a project list.
func ToProjectDTOs(actor *models.User, projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(actor, project)
	}
	return dtos
}
