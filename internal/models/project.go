package models

import (
	"time"

	"github.com/zulandar/yardplan/internal/schedule"
)

// Project is a node of the project hierarchy. A project with a parent is a
// subproject. Its children are subprojects, root products it contains, and
// tasks.
type Project struct {
	ID             string  `gorm:"primaryKey;size:36"`
	OrganizationID string  `gorm:"size:36;not null;index"`
	CustomerID     *string `gorm:"size:36;index"`
	ParentID       *string `gorm:"size:36;index"`
	Name           string  `gorm:"not null;size:255"`
	Description    string  `gorm:"type:text"`
	AvailableDate  *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	Deadline       *time.Time
	Version        int64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Parent      *Project  `gorm:"foreignKey:ParentID"`
	Subprojects []Project `gorm:"foreignKey:ParentID"`
	Products    []Product `gorm:"foreignKey:ProjectID"`
	Tasks       []Task    `gorm:"foreignKey:ProjectID"`
}

// Dates returns the aggregated attributes of the project.
func (p *Project) Dates() schedule.Dates {
	return schedule.Dates{Available: p.AvailableDate, Start: p.StartDate, End: p.EndDate}
}

// SetDates overwrites the aggregated attributes.
func (p *Project) SetDates(d schedule.Dates) {
	p.AvailableDate, p.StartDate, p.EndDate = d.Available, d.Start, d.End
}

// ParentRef returns the project's linkage in the project hierarchy.
func (p *Project) ParentRef() schedule.ParentRef {
	return schedule.ParentFromColumns(p.ParentID, nil)
}

// Task is a leaf contributor owned by a project. Its dates are always fixed.
type Task struct {
	ID             string `gorm:"primaryKey;size:36"`
	OrganizationID string `gorm:"size:36;not null;index"`
	ProjectID      string `gorm:"size:36;not null;index"`
	Title          string `gorm:"not null;size:255"`
	AvailableDate  *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	Deadline       *time.Time
	Version        int64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Dates returns the task's fixed dates.
func (t *Task) Dates() schedule.Dates {
	return schedule.Dates{Available: t.AvailableDate, Start: t.StartDate, End: t.EndDate}
}

// SetDates overwrites the task's fixed dates.
func (t *Task) SetDates(d schedule.Dates) {
	t.AvailableDate, t.StartDate, t.EndDate = d.Available, d.Start, d.End
}

// ParentRef returns the owning project.
func (t *Task) ParentRef() schedule.ParentRef {
	return schedule.SameType(t.ProjectID)
}
