package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/project"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/store"
	"github.com/zulandar/yardplan/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db  *gorm.DB
	eng *cascade.Engine
	org string
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &fixture{
		db:  db,
		eng: store.NewEngine(db),
		org: testutil.SeedOrganization(t, db, "acme"),
		ctx: context.Background(),
	}
}

func (f *fixture) project(t *testing.T, name string) *models.Project {
	t.Helper()
	p, err := project.Create(f.ctx, f.db, f.eng, project.CreateOpts{OrganizationID: f.org, Name: name})
	require.NoError(t, err)
	return p
}

func (f *fixture) product(t *testing.T, name, parentID, projectID string, dates schedule.Dates) *models.Product {
	t.Helper()
	p, err := Create(f.ctx, f.db, f.eng, CreateOpts{
		OrganizationID: f.org,
		ParentID:       parentID,
		ProjectID:      projectID,
		Name:           name,
		Dates:          dates,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) chain(t *testing.T, productID, name string, dates schedule.Dates) *models.ValueChain {
	t.Helper()
	v, err := CreateValueChain(f.ctx, f.db, f.eng, ValueChainOpts{
		OrganizationID: f.org,
		ProductID:      productID,
		Name:           name,
		Dates:          dates,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) reload(t *testing.T, id string) *models.Product {
	t.Helper()
	p, err := Get(f.db, f.org, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) reloadProject(t *testing.T, id string) *models.Project {
	t.Helper()
	p, err := project.Get(f.db, f.org, id)
	require.NoError(t, err)
	return p
}

func span(available, start, end string) schedule.Dates {
	var d schedule.Dates
	if available != "" {
		d.Available = testutil.Day(available)
	}
	if start != "" {
		d.Start = testutil.Day(start)
	}
	if end != "" {
		d.End = testutil.Day(end)
	}
	return d
}

func assertDay(t *testing.T, want string, got *time.Time) {
	t.Helper()
	if want == "" {
		assert.Nil(t, got)
		return
	}
	if assert.NotNil(t, got, "expected %s", want) {
		assert.True(t, testutil.Day(want).Equal(*got), "want %s, got %s", want, got.Format("2006-01-02"))
	}
}

func assertSpan(t *testing.T, available, start, end string, d schedule.Dates) {
	t.Helper()
	assertDay(t, available, d.Available)
	assertDay(t, start, d.Start)
	assertDay(t, end, d.End)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	parent := f.product(t, "Parent", "", "", schedule.Dates{})

	_, err := Create(f.ctx, f.db, f.eng, CreateOpts{OrganizationID: f.org})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Create(f.ctx, f.db, f.eng, CreateOpts{OrganizationID: f.org, Name: "Both", ParentID: parent.ID, ProjectID: prj.ID})
	assert.ErrorIs(t, err, ErrParent)

	_, err = Create(f.ctx, f.db, f.eng, CreateOpts{OrganizationID: f.org, Name: "Lost", ParentID: "missing"})
	assert.ErrorIs(t, err, ErrParent)

	_, err = Create(f.ctx, f.db, f.eng, CreateOpts{OrganizationID: f.org, Name: "Lost", ProjectID: "missing"})
	assert.ErrorIs(t, err, ErrParent)

	_, err = Create(f.ctx, f.db, f.eng, CreateOpts{
		OrganizationID: f.org,
		Name:           "Backwards",
		Dates:          span("", "2024-03-01", "2024-01-01"),
	})
	assert.ErrorIs(t, err, schedule.ErrDateOrder)
}

func TestValueChains_FeedProductAndProject(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	root := f.product(t, "Platform", "", prj.ID, schedule.Dates{})
	sub := f.product(t, "Module", root.ID, "", schedule.Dates{})

	f.chain(t, sub.ID, "Supply", span("2024-01-01", "2024-01-15", "2024-02-01"))
	f.chain(t, sub.ID, "Assembly", span("2024-01-10", "2024-02-01", "2024-04-01"))

	assertSpan(t, "2024-01-01", "2024-01-15", "2024-04-01", f.reload(t, sub.ID).Dates())
	assertSpan(t, "2024-01-01", "2024-01-15", "2024-04-01", f.reload(t, root.ID).Dates())
	assertSpan(t, "2024-01-01", "2024-01-15", "2024-04-01", f.reloadProject(t, prj.ID).Dates())
}

func TestUpdateValueChain_NarrowCascade(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	root := f.product(t, "Platform", "", prj.ID, schedule.Dates{})
	v := f.chain(t, root.ID, "Supply", span("2024-01-01", "2024-01-15", "2024-02-01"))

	d := span("2024-01-01", "2024-01-15", "2024-05-01")
	updated, err := UpdateValueChain(f.ctx, f.db, f.eng, f.org, v.ID, ValueChainUpdateOpts{Dates: &d})
	require.NoError(t, err)
	assertDay(t, "2024-05-01", updated.EndDate)

	assertDay(t, "2024-05-01", f.reload(t, root.ID).EndDate)
	assertDay(t, "2024-05-01", f.reloadProject(t, prj.ID).EndDate)
}

func TestUpdateValueChain_MoveBetweenProducts(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "", "", schedule.Dates{})
	b := f.product(t, "B", "", "", schedule.Dates{})
	v := f.chain(t, a.ID, "Supply", span("2024-01-01", "2024-01-15", "2024-02-01"))

	to := b.ID
	updated, err := UpdateValueChain(f.ctx, f.db, f.eng, f.org, v.ID, ValueChainUpdateOpts{ProductID: &to})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ProductID)

	assertSpan(t, "", "", "", f.reload(t, a.ID).Dates())
	assertSpan(t, "2024-01-01", "2024-01-15", "2024-02-01", f.reload(t, b.ID).Dates())

	chains, err := ListValueChains(f.db, f.org, b.ID)
	require.NoError(t, err)
	assert.Len(t, chains, 1)
}

func TestDeleteValueChain(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P", "", "", schedule.Dates{})
	f.chain(t, p.ID, "Keep", span("2024-01-05", "2024-01-06", "2024-01-07"))
	drop := f.chain(t, p.ID, "Drop", span("2024-01-01", "2024-01-02", "2024-03-01"))

	require.NoError(t, DeleteValueChain(f.ctx, f.db, f.eng, f.org, drop.ID))

	_, err := GetValueChain(f.db, f.org, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assertSpan(t, "2024-01-05", "2024-01-06", "2024-01-07", f.reload(t, p.ID).Dates())
}

func TestUpdate_SubproductBecomesRootProductOfProject(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	parent := f.product(t, "Parent", "", "", schedule.Dates{})
	f.product(t, "Stays", parent.ID, "", span("2024-01-01", "2024-01-02", "2024-01-03"))
	mover := f.product(t, "Mover", parent.ID, "", span("2023-01-01", "2023-01-02", "2025-01-01"))

	assertSpan(t, "2023-01-01", "2023-01-02", "2025-01-01", f.reload(t, parent.ID).Dates())

	to := prj.ID
	updated, err := Update(f.ctx, f.db, f.eng, f.org, mover.ID, UpdateOpts{ProjectID: &to})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
	require.NotNil(t, updated.ProjectID)
	assert.Equal(t, prj.ID, *updated.ProjectID)

	assertSpan(t, "2024-01-01", "2024-01-02", "2024-01-03", f.reload(t, parent.ID).Dates())
	assertSpan(t, "2023-01-01", "2023-01-02", "2025-01-01", f.reloadProject(t, prj.ID).Dates())
}

func TestUpdate_RootProductBecomesSubproduct(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	parent := f.product(t, "Parent", "", "", schedule.Dates{})
	p := f.product(t, "Contained", "", prj.ID, span("2024-02-01", "2024-02-02", "2024-02-03"))

	assertSpan(t, "2024-02-01", "2024-02-02", "2024-02-03", f.reloadProject(t, prj.ID).Dates())

	to := parent.ID
	updated, err := Update(f.ctx, f.db, f.eng, f.org, p.ID, UpdateOpts{ParentID: &to})
	require.NoError(t, err)
	assert.Nil(t, updated.ProjectID)

	assertSpan(t, "2024-02-01", "2024-02-02", "2024-02-03", f.reload(t, parent.ID).Dates())
	assertSpan(t, "", "", "", f.reloadProject(t, prj.ID).Dates())
}

func TestUpdate_BothParentsRefused(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	parent := f.product(t, "Parent", "", "", schedule.Dates{})
	p := f.product(t, "P", "", "", schedule.Dates{})

	to, in := parent.ID, prj.ID
	_, err := Update(f.ctx, f.db, f.eng, f.org, p.ID, UpdateOpts{ParentID: &to, ProjectID: &in})
	assert.ErrorIs(t, err, ErrParent)
}

func TestUpdate_CycleRefused(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "", "", schedule.Dates{})
	b := f.product(t, "B", a.ID, "", schedule.Dates{})

	under := b.ID
	_, err := Update(f.ctx, f.db, f.eng, f.org, a.ID, UpdateOpts{ParentID: &under})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestUpdate_DerivedDatesRefused(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P", "", "", schedule.Dates{})
	f.chain(t, p.ID, "Chain", schedule.Dates{})

	d := span("2024-01-01", "", "")
	_, err := Update(f.ctx, f.db, f.eng, f.org, p.ID, UpdateOpts{Dates: &d})
	assert.ErrorIs(t, err, ErrDerivedDates)
}

func TestUpdate_LeafDates(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	p := f.product(t, "P", "", prj.ID, schedule.Dates{})

	d := span("", "2024-06-01", "")
	updated, err := Update(f.ctx, f.db, f.eng, f.org, p.ID, UpdateOpts{Dates: &d})
	require.NoError(t, err)
	assertDay(t, "2024-06-01", updated.StartDate)
	assertDay(t, "2024-06-01", f.reloadProject(t, prj.ID).StartDate)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	p := f.product(t, "P", "", prj.ID, span("2024-01-01", "2024-01-02", "2024-01-03"))

	assertDay(t, "2024-01-03", f.reloadProject(t, prj.ID).EndDate)
	require.NoError(t, Delete(f.ctx, f.db, f.eng, f.org, p.ID))

	_, err := Get(f.db, f.org, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, f.reloadProject(t, prj.ID).EndDate)
}

func TestDelete_WithChildrenRefused(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P", "", "", schedule.Dates{})
	f.product(t, "Sub", p.ID, "", schedule.Dates{})

	err := Delete(f.ctx, f.db, f.eng, f.org, p.ID)
	assert.ErrorIs(t, err, ErrHasChildren)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	prj := f.project(t, "Program")
	a := f.product(t, "Alpha", "", prj.ID, schedule.Dates{})
	f.product(t, "Beta", "", "", schedule.Dates{})
	f.product(t, "Child", a.ID, "", schedule.Dates{})

	roots, err := List(f.db, f.org, ListFilters{RootsOnly: true})
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	inProject, err := List(f.db, f.org, ListFilters{ProjectID: prj.ID})
	require.NoError(t, err)
	require.Len(t, inProject, 1)
	assert.Equal(t, "Alpha", inProject[0].Name)

	kids, err := List(f.db, f.org, ListFilters{ParentID: a.ID})
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, "Child", kids[0].Name)
}
