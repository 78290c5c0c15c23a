package models

import (
	"time"

	"github.com/zulandar/yardplan/internal/schedule"
)

// Product is a node of the product hierarchy. A product with ParentID set is
// a subproduct; a root product may instead be contained in a project through
// ProjectID. At most one of the two is set.
type Product struct {
	ID             string  `gorm:"primaryKey;size:36"`
	OrganizationID string  `gorm:"size:36;not null;index"`
	ProjectID      *string `gorm:"size:36;index"`
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

	Parent      *Product     `gorm:"foreignKey:ParentID"`
	Subproducts []Product    `gorm:"foreignKey:ParentID"`
	ValueChains []ValueChain `gorm:"foreignKey:ProductID"`
}

// Dates returns the aggregated attributes of the product.
func (p *Product) Dates() schedule.Dates {
	return schedule.Dates{Available: p.AvailableDate, Start: p.StartDate, End: p.EndDate}
}

// SetDates overwrites the aggregated attributes.
func (p *Product) SetDates(d schedule.Dates) {
	p.AvailableDate, p.StartDate, p.EndDate = d.Available, d.Start, d.End
}

// ParentRef returns the product's single parent: a parent product, else the
// containing project.
func (p *Product) ParentRef() schedule.ParentRef {
	return schedule.ParentFromColumns(p.ParentID, p.ProjectID)
}

// ValueChain is a leaf contributor owned by a product.
type ValueChain struct {
	ID             string `gorm:"primaryKey;size:36"`
	OrganizationID string `gorm:"size:36;not null;index"`
	ProductID      string `gorm:"size:36;not null;index"`
	Name           string `gorm:"not null;size:255"`
	AvailableDate  *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	Version        int64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Dates returns the value chain's fixed dates.
func (v *ValueChain) Dates() schedule.Dates {
	return schedule.Dates{Available: v.AvailableDate, Start: v.StartDate, End: v.EndDate}
}

// SetDates overwrites the value chain's fixed dates.
func (v *ValueChain) SetDates(d schedule.Dates) {
	v.AvailableDate, v.StartDate, v.EndDate = d.Available, d.Start, d.End
}

// ParentRef returns the owning product.
func (v *ValueChain) ParentRef() schedule.ParentRef {
	return schedule.SameType(v.ProductID)
}
