package repository

import (
	"gorm.io/gorm"

	"github.com/campusportal/portal-api/internal/models"
)

// visibleProjectScope returns a query over projects the actor may see.
// Precedence: operators see everything; anonymous actors see only published
// projects; everyone else additionally sees projects they belong to as a
// student, the TA, or the client rep.
func visibleProjectScope(db *gorm.DB, actor *models.User) *gorm.DB {
	query := db.Model(&models.Project{})

	if actor != nil && actor.IsSuperuser {
		return query
	}

	if actor == nil {
		return query.Where("projects.is_published = ?", true)
	}

	studentProjects := db.Session(&gorm.Session{NewDB: true}).
		Table("project_students").
		Select("project_id").
		Where("user_id = ?", actor.ID)

	cond := db.Session(&gorm.Session{NewDB: true}).
		Where("projects.is_published = ?", true).
		Or("projects.ta_id = ?", actor.ID).
		Or("projects.client_rep_id = ?", actor.ID).
		Or("projects.id IN (?)", studentProjects)

	return query.Where(cond)
}

// visibleOrgScope returns a query over client orgs the actor may see: orgs
// owning at least one visible project, plus (for authenticated actors) orgs
// the actor represents. Operators see everything.
func visibleOrgScope(db *gorm.DB, actor *models.User) *gorm.DB {
	query := db.Model(&models.ClientOrg{})

	if actor != nil && actor.IsSuperuser {
		return query
	}

	orgIDs := visibleProjectScope(db.Session(&gorm.Session{NewDB: true}), actor).
		Select("projects.client_org_id").
		Where("projects.client_org_id IS NOT NULL")

	if actor == nil {
		return query.Where("client_orgs.id IN (?)", orgIDs)
	}

	repOrgs := db.Session(&gorm.Session{NewDB: true}).
		Table("client_org_reps").
		Select("client_org_id").
		Where("user_id = ?", actor.ID)

	cond := db.Session(&gorm.Session{NewDB: true}).
		Where("client_orgs.id IN (?)", orgIDs).
		Or("client_orgs.id IN (?)", repOrgs)

	return query.Where(cond)
}
