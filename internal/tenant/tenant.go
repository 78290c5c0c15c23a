// Package tenant provides organization and customer lifecycle operations.
package tenant

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/zulandar/yardplan/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an organization or customer does not exist
	// in the requested scope.
	ErrNotFound = errors.New("tenant: not found")
	// ErrInvalid is returned for unusable input.
	ErrInvalid = errors.New("tenant: invalid input")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

// Slugify derives a URL-safe slug from a display name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// CreateOrganization creates a tenant. An empty slug is derived from name.
func CreateOrganization(db *gorm.DB, name, slug string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalid)
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug %q must be 2-63 lowercase letters, digits or dashes", ErrInvalid, slug)
	}

	org := models.Organization{ID: uuid.NewString(), Name: name, Slug: slug}
	if err := db.Create(&org).Error; err != nil {
		return nil, fmt.Errorf("tenant: create organization %q: %w", slug, err)
	}
	return &org, nil
}

// GetOrganization looks an organization up by id or slug.
func GetOrganization(db *gorm.DB, idOrSlug string) (*models.Organization, error) {
	var org models.Organization
	err := db.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization %s", ErrNotFound, idOrSlug)
		}
		return nil, fmt.Errorf("tenant: get organization %s: %w", idOrSlug, err)
	}
	return &org, nil
}

// ListOrganizations returns every organization ordered by name.
func ListOrganizations(db *gorm.DB) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := db.Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("tenant: list organizations: %w", err)
	}
	return orgs, nil
}

// CreateCustomer adds a customer to an organization.
func CreateCustomer(db *gorm.DB, orgID, name, email string) (*models.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalid)
	}
	if _, err := GetOrganization(db, orgID); err != nil {
		return nil, err
	}

	c := models.Customer{ID: uuid.NewString(), OrganizationID: orgID, Name: name, Email: email}
	if err := db.Omit("Organization").Create(&c).Error; err != nil {
		return nil, fmt.Errorf("tenant: create customer %q: %w", name, err)
	}
	return &c, nil
}

// GetCustomer returns a customer of the organization.
func GetCustomer(db *gorm.DB, orgID, id string) (*models.Customer, error) {
	var c models.Customer
	err := db.Where("organization_id = ? AND id = ?", orgID, id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("tenant: get customer %s: %w", id, err)
	}
	return &c, nil
}

// ListCustomers returns the organization's customers ordered by name.
func ListCustomers(db *gorm.DB, orgID string) ([]models.Customer, error) {
	var cs []models.Customer
	if err := db.Where("organization_id = ?", orgID).Order("name ASC").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("tenant: list customers: %w", err)
	}
	return cs, nil
}
