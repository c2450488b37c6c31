package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectType string

const (
	ProjectTypeMobileApp ProjectType = "MA"
	ProjectTypeWebApp    ProjectType = "WA"
	ProjectTypeOther     ProjectType = "OTH"
)

func (t ProjectType) Display() string {
	switch t {
	case ProjectTypeMobileApp:
		return "Mobile App"
	case ProjectTypeWebApp:
		return "Web App"
	default:
		return "Other"
	}
}

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeMobileApp, ProjectTypeWebApp, ProjectTypeOther:
		return true
	}
	return false
}

type Term string

const (
	TermFall   Term = "F"
	TermWinter Term = "W"
	TermSpring Term = "SP"
	TermSummer Term = "SM"
)

func (t Term) Display() string {
	switch t {
	case TermFall:
		return "Fall"
	case TermWinter:
		return "Winter"
	case TermSpring:
		return "Spring"
	case TermSummer:
		return "Summer"
	}
	return string(t)
}

func (t Term) Valid() bool {
	switch t {
	case TermFall, TermWinter, TermSpring, TermSummer:
		return true
	}
	return false
}

type Project struct {
	ID uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	// Name is unique because it doubles as the natural key for the CSV import.
	Name              string      `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Summary           string      `gorm:"type:text" json:"summary"`
	Tagline           string      `gorm:"type:varchar(150)" json:"tagline"`
	Video             string      `gorm:"type:varchar(255)" json:"video"`
	Type              ProjectType `gorm:"type:varchar(50);not null;default:'OTH'" json:"type"`
	Year              int         `gorm:"not null" json:"year"`
	Term              Term        `gorm:"type:varchar(50)" json:"term"`
	IsPublished       bool        `gorm:"not null;default:false" json:"is_published"`
	DisplayOnHomePage bool        `gorm:"not null;default:false" json:"display_on_home_page"`
	Screenshot        string      `gorm:"type:varchar(255)" json:"screenshot"`
	Presentation      string      `gorm:"type:varchar(255)" json:"presentation"`
	Review            string      `gorm:"type:text" json:"review"`
	WebsiteURL        string      `gorm:"type:varchar(255)" json:"website_url"`
	SourceCodeURL     string      `gorm:"type:varchar(255)" json:"source_code_url"`
	LogoURL           string      `gorm:"type:varchar(255)" json:"logo_url"`
	LogoImage         string      `gorm:"type:varchar(255)" json:"logo_image"`
	Storyboard        string      `gorm:"type:varchar(255)" json:"storyboard"`
	ClientOrgID       *uuid.UUID  `gorm:"type:uuid" json:"client_org_id"`
	TAID              *uuid.UUID  `gorm:"type:uuid" json:"ta_id"`
	ClientRepID       *uuid.UUID  `gorm:"type:uuid" json:"client_rep_id"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	// Relations
	ClientOrg *ClientOrg `gorm:"foreignKey:ClientOrgID;constraint:OnDelete:CASCADE" json:"client_org,omitempty"`
	TA        *User      `gorm:"foreignKey:TAID;constraint:OnDelete:SET NULL" json:"ta,omitempty"`
	ClientRep *User      `gorm:"foreignKey:ClientRepID;constraint:OnDelete:SET NULL" json:"client_rep,omitempty"`
	Students  []User     `gorm:"many2many:project_students" json:"students,omitempty"`
	Tags      []Tag      `gorm:"many2many:project_tags" json:"tags,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Type == "" {
		p.Type = ProjectTypeOther
	}
	return nil
}
