package api

import (
	"fmt"
	"time"

	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/schedule"
)

// datesBody carries the three schedulable dates as YYYY-MM-DD or RFC 3339
// strings. A missing or empty value means unset.
type datesBody struct {
	AvailableDate string `json:"available_date"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

func (b datesBody) parse() (schedule.Dates, error) {
	var d schedule.Dates
	var err error
	if d.Available, err = schedule.ParseDate(b.AvailableDate); err != nil {
		return d, fmt.Errorf("%w: available_date: %w", errBadRequest, err)
	}
	if d.Start, err = schedule.ParseDate(b.StartDate); err != nil {
		return d, fmt.Errorf("%w: start_date: %w", errBadRequest, err)
	}
	if d.End, err = schedule.ParseDate(b.EndDate); err != nil {
		return d, fmt.Errorf("%w: end_date: %w", errBadRequest, err)
	}
	return d, nil
}

// parseOptional parses b when present.
func parseOptional(b *datesBody) (*schedule.Dates, error) {
	if b == nil {
		return nil, nil
	}
	d, err := b.parse()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDeadline(s string) (*time.Time, error) {
	t, err := schedule.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline: %w", errBadRequest, err)
	}
	return t, nil
}

type organizationView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOrganization(o *models.Organization) organizationView {
	return organizationView{ID: o.ID, Name: o.Name, Slug: o.Slug, CreatedAt: o.CreatedAt}
}

type customerView struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
}

func viewCustomer(c *models.Customer) customerView {
	return customerView{ID: c.ID, OrganizationID: c.OrganizationID, Name: c.Name, Email: c.Email}
}

type projectView struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	CustomerID     *string    `json:"customer_id,omitempty"`
	ParentID       *string    `json:"parent_id,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	AvailableDate  *time.Time `json:"available_date"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Version        int64      `json:"version"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func viewProject(p *models.Project) projectView {
	return projectView{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		CustomerID:     p.CustomerID,
		ParentID:       p.ParentID,
		Name:           p.Name,
		Description:    p.Description,
		AvailableDate:  p.AvailableDate,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Deadline:       p.Deadline,
		Version:        p.Version,
		UpdatedAt:      p.UpdatedAt,
	}
}

type taskView struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Title         string     `json:"title"`
	AvailableDate *time.Time `json:"available_date"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Version       int64      `json:"version"`
}

func viewTask(t *models.Task) taskView {
	return taskView{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		AvailableDate: t.AvailableDate,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		Deadline:      t.Deadline,
		Version:       t.Version,
	}
}

type productView struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	ProjectID      *string    `json:"project_id,omitempty"`
	ParentID       *string    `json:"parent_id,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	AvailableDate  *time.Time `json:"available_date"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Version        int64      `json:"version"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func viewProduct(p *models.Product) productView {
	return productView{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		ProjectID:      p.ProjectID,
		ParentID:       p.ParentID,
		Name:           p.Name,
		Description:    p.Description,
		AvailableDate:  p.AvailableDate,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Deadline:       p.Deadline,
		Version:        p.Version,
		UpdatedAt:      p.UpdatedAt,
	}
}

type valueChainView struct {
	ID            string     `json:"id"`
	ProductID     string     `json:"product_id"`
	Name          string     `json:"name"`
	AvailableDate *time.Time `json:"available_date"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Version       int64      `json:"version"`
}

func viewValueChain(v *models.ValueChain) valueChainView {
	return valueChainView{
		ID:            v.ID,
		ProductID:     v.ProductID,
		Name:          v.Name,
		AvailableDate: v.AvailableDate,
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		Version:       v.Version,
	}
}

func viewList[M any, V any](items []M, view func(*M) V) []V {
	out := make([]V, len(items))
	for i := range items {
		out[i] = view(&items[i])
	}
	return out
}
