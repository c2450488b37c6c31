// Package policy holds the pure authorization rules of the portal: which
// relation an actor has to a record, which fields that relation may write,
// and the password acceptance rules. Nothing here touches storage.
package policy

import (
	"github.com/campusportal/portal-api/internal/models"
)

// ProjectRole is an actor's strongest relation to a project.
type ProjectRole int

const (
	// ProjectRoleNone means the actor has no relation to the project.
	// Update requests are denied outright, not field-filtered.
	ProjectRoleNone ProjectRole = iota
	ProjectRoleStudent
	ProjectRoleClientRep
	// ProjectRoleTA covers the project's TA and operators.
	ProjectRoleTA
)

// Project field names, as submitted by clients.
const (
	FieldName              = "name"
	FieldSummary           = "summary"
	FieldTagline           = "tagline"
	FieldVideo             = "video"
	FieldType              = "type"
	FieldYear              = "year"
	FieldTerm              = "term"
	FieldScreenshot        = "screenshot"
	FieldPresentation      = "presentation"
	FieldReview            = "review"
	FieldWebsiteURL        = "website_url"
	FieldSourceCodeURL     = "source_code_url"
	FieldLogoURL           = "logo_url"
	FieldLogoImage         = "logo_image"
	FieldStoryboard        = "storyboard"
	FieldIsPublished       = "is_published"
	FieldDisplayOnHomePage = "display_on_home_page"
)

// ProjectRoleOf returns the actor's strongest relation to the project.
// Highest match wins: operator/TA, then client rep, then student.
// The project's Students relation must be loaded.
func ProjectRoleOf(actor *models.User, project *models.Project) ProjectRole {
	if actor == nil {
		return ProjectRoleNone
	}
	if actor.IsSuperuser {
		return ProjectRoleTA
	}
	if project.TAID != nil && *project.TAID == actor.ID {
		return ProjectRoleTA
	}
	if project.ClientRepID != nil && *project.ClientRepID == actor.ID {
		return ProjectRoleClientRep
	}
	if actor.IsStudentOf(project) {
		return ProjectRoleStudent
	}
	return ProjectRoleNone
}

// ProjectFieldWritable reports whether the role may write the named project
// field. TAs and operators may write everything. Client reps may write
// everything except the publication flags. Students additionally may not
// write the review.
func ProjectFieldWritable(role ProjectRole, field string) bool {
	switch role {
	case ProjectRoleTA:
		return true
	case ProjectRoleClientRep:
		return field != FieldIsPublished && field != FieldDisplayOnHomePage
	case ProjectRoleStudent:
		return field != FieldIsPublished && field != FieldDisplayOnHomePage && field != FieldReview
	default:
		return false
	}
}

// CanEditOrg reports whether the actor may update the org: a listed
// representative or an operator. The org's Reps relation must be loaded.
func CanEditOrg(actor *models.User, org *models.ClientOrg) bool {
	if actor == nil {
		return false
	}
	return actor.IsSuperuser || actor.IsRepOf(org)
}

// CanEditUser reports whether the actor may update the target user's
// profile: the user themself or an operator.
func CanEditUser(actor *models.User, target *models.User) bool {
	if actor == nil {
		return false
	}
	return actor.IsSuperuser || actor.ID == target.ID
}

// CanSeeEmail reports whether the actor may read the target user's email.
func CanSeeEmail(actor *models.User, target *models.User) bool {
	if actor == nil {
		return false
	}
	return actor.IsSuperuser || actor.ID == target.ID
}
