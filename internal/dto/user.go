package dto

import (
	"github.com/google/uuid"

	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/policy"
)

// UserDTO represents a user in API responses. Email is included only when
// the requester may see it (self or operator).
type UserDTO struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email,omitempty"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Image          string    `json:"image"`
	WebsiteLink    string    `json:"website_link"`
	LinkedinLink   string    `json:"linkedin_link"`
	GithubUsername string    `json:"github_username"`
}

// UserDetailDTO is the full user payload with the requester-visible
// project lists grouped by the user's role in them.
type UserDetailDTO struct {
	UserDTO
	StudentProjects []ProjectDTO `json:"student_projects"`
	TAProjects      []ProjectDTO `json:"ta_projects"`
	RepProjects     []ProjectDTO `json:"rep_projects"`
}

// CurrentUserDTO is the session introspection payload.
type CurrentUserDTO struct {
	LoggedIn    bool     `json:"logged_in"`
	IsSuperuser bool     `json:"is_superuser,omitempty"`
	HasPassword bool     `json:"has_password,omitempty"`
	User        *UserDTO `json:"user,omitempty"`
}

// LoginDTO is the successful-login envelope.
type LoginDTO struct {
	Success bool           `json:"success"`
	Token   string         `json:"token"`
	User    CurrentUserDTO `json:"user"`
}

// ToUserDTO converts a user to its API shape as seen by the actor.
func ToUserDTO(actor *models.User, user models.User) UserDTO {
	dto := UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Bio:            user.Bio,
		Image:          user.Image,
		WebsiteLink:    user.WebsiteLink,
		LinkedinLink:   user.LinkedinLink,
		GithubUsername: user.GithubUsername,
	}
	if policy.CanSeeEmail(actor, &user) {
		dto.Email = user.Email
	}
	return dto
}

// ToUserDetailDTO converts a user plus their visible projects to the
// full payload.
func ToUserDetailDTO(actor *models.User, user models.User, student, ta, rep []models.Project) UserDetailDTO {
	return UserDetailDTO{
		UserDTO:         ToUserDTO(actor, user),
		StudentProjects: ToProjectDTOs(actor, student),
		TAProjects:      ToProjectDTOs(actor, ta),
		RepProjects:     ToProjectDTOs(actor, rep),
	}
}

// ToCurrentUserDTO builds the session payload for a logged-in user.
func ToCurrentUserDTO(user *models.User) CurrentUserDTO {
	u := ToUserDTO(user, *user)
	return CurrentUserDTO{
		LoggedIn:    true,
		IsSuperuser: user.IsSuperuser,
		HasPassword: user.HasUsablePassword(),
		User:        &u,
	}
}

// ToLoginDTO builds the login response envelope.
func ToLoginDTO(user *models.User, token *models.AuthToken) LoginDTO {
	return LoginDTO{
		Success: true,
		Token:   token.Key,
		User:    ToCurrentUserDTO(user),
	}
}
