package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgType string

const (
	OrgTypeStartup   OrgType = "SP"
	OrgTypeNonProfit OrgType = "NP"
	OrgTypeAcademic  OrgType = "AC"
	OrgTypeCSL       OrgType = "CSL"
	OrgTypeOther     OrgType = "OTH"
)

// Display returns the long form of the org type for API payloads.
func (t OrgType) Display() string {
	switch t {
	case OrgTypeStartup:
		return "Startup"
	case OrgTypeNonProfit:
		return "Non-profit"
	case OrgTypeAcademic:
		return "Academic"
	case OrgTypeCSL:
		return "Community Service Learning"
	default:
		return "Other"
	}
}

// Valid reports whether the value is one of the known org types.
func (t OrgType) Valid() bool {
	switch t {
	case OrgTypeStartup, OrgTypeNonProfit, OrgTypeAcademic, OrgTypeCSL, OrgTypeOther:
		return true
	}
	return false
}

type ClientOrg struct {
	ID uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	// Name is unique because it doubles as the natural key for the CSV import.
	Name        string    `gorm:"type:varchar(60);uniqueIndex;not null" json:"name"`
	About       string    `gorm:"type:text" json:"about"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	WebsiteLink string    `gorm:"type:varchar(255)" json:"website_link"`
	Type        OrgType   `gorm:"type:varchar(60);not null;default:'OTH'" json:"type"`
	Testimonial string    `gorm:"type:text" json:"testimonial"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Reps     []User    `gorm:"many2many:client_org_reps" json:"reps,omitempty"`
	Projects []Project `gorm:"foreignKey:ClientOrgID" json:"projects,omitempty"`
}

func (o *ClientOrg) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Type == "" {
		o.Type = OrgTypeOther
	}
	return nil
}
