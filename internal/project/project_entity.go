package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project carries its own approver assignments: an optional lead for
// the first review stage and a mandatory manager for the second.
type Project struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name      string     `gorm:"size:255;not null"`
	Code      string     `gorm:"size:50;not null;uniqueIndex:uq_projects_company_code"`
	LeadID    *uuid.UUID `gorm:"type:uuid"`
	ManagerID uuid.UUID  `gorm:"type:uuid;not null"`
	IsActive  bool       `gorm:"default:true"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Tasks []Task `gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:255;not null"`
	IsActive  bool      `gorm:"default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}

type Member struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Member) TableName() string {
	return "project_members"
}
