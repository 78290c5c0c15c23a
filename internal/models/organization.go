package models

import "time"

// Organization is a tenant. Every other row belongs to exactly one.
type Organization struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null;size:128"`
	Slug      string `gorm:"size:64;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer is the client a project is run for.
type Customer struct {
	ID             string `gorm:"primaryKey;size:36"`
	OrganizationID string `gorm:"size:36;not null;index"`
	Name           string `gorm:"not null;size:128"`
	Email          string `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Organization Organization `gorm:"foreignKey:OrganizationID"`
}
