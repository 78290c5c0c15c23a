package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/testutil"
)

func TestCreateTask_Cascades(t *testing.T) {
	f := newFixture(t)
	root := f.project(t, "Root", "", schedule.Dates{})
	p := f.project(t, "Sprint", root.ID, schedule.Dates{})

	f.task(t, p.ID, "Design", span("2024-01-01", "2024-01-02", "2024-01-05"))
	f.task(t, p.ID, "Build", span("2024-01-03", "2024-01-06", "2024-01-20"))

	assertSpan(t, "2024-01-01", "2024-01-02", "2024-01-20", f.reload(t, p.ID))
	assertSpan(t, "2024-01-01", "2024-01-02", "2024-01-20", f.reload(t, root.ID))
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Sprint", "", schedule.Dates{})

	_, err := CreateTask(f.ctx, f.db, f.eng, TaskOpts{OrganizationID: f.org, ProjectID: p.ID})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = CreateTask(f.ctx, f.db, f.eng, TaskOpts{OrganizationID: f.org, Title: "No project"})
	assert.ErrorIs(t, err, ErrParent)

	_, err = CreateTask(f.ctx, f.db, f.eng, TaskOpts{OrganizationID: f.org, ProjectID: "missing", Title: "Lost"})
	assert.ErrorIs(t, err, ErrParent)

	_, err = CreateTask(f.ctx, f.db, f.eng, TaskOpts{
		OrganizationID: f.org,
		ProjectID:      p.ID,
		Title:          "Backwards",
		Dates:          span("2024-02-01", "2024-01-01", ""),
	})
	assert.ErrorIs(t, err, schedule.ErrDateOrder)
}

func TestListTasks(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Sprint", "", schedule.Dates{})
	f.task(t, p.ID, "Later", span("", "2024-02-01", ""))
	f.task(t, p.ID, "Sooner", span("", "2024-01-01", ""))

	tasks, err := ListTasks(f.db, f.org, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Sooner", tasks[0].Title)
	assert.Equal(t, "Later", tasks[1].Title)
}

func TestUpdateTask_NarrowsToChangedDimension(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Sprint", "", schedule.Dates{})
	tk := f.task(t, p.ID, "Build", span("2024-01-01", "2024-01-02", "2024-01-10"))

	d := span("2024-01-01", "2024-01-02", "2024-02-28")
	updated, err := UpdateTask(f.ctx, f.db, f.eng, f.org, tk.ID, TaskUpdateOpts{Dates: &d})
	require.NoError(t, err)
	assertDay(t, "2024-02-28", updated.EndDate)

	assertSpan(t, "2024-01-01", "2024-01-02", "2024-02-28", f.reload(t, p.ID))
}

func TestUpdateTask_MoveBetweenProjects(t *testing.T) {
	f := newFixture(t)
	from := f.project(t, "From", "", schedule.Dates{})
	to := f.project(t, "To", "", schedule.Dates{})
	tk := f.task(t, from.ID, "Wander", span("2024-04-01", "2024-04-02", "2024-04-30"))

	target := to.ID
	updated, err := UpdateTask(f.ctx, f.db, f.eng, f.org, tk.ID, TaskUpdateOpts{ProjectID: &target})
	require.NoError(t, err)
	assert.Equal(t, to.ID, updated.ProjectID)

	assertSpan(t, "", "", "", f.reload(t, from.ID))
	assertSpan(t, "2024-04-01", "2024-04-02", "2024-04-30", f.reload(t, to.ID))

	empty := ""
	_, err = UpdateTask(f.ctx, f.db, f.eng, f.org, tk.ID, TaskUpdateOpts{ProjectID: &empty})
	assert.ErrorIs(t, err, ErrParent)
}

func TestUpdateTask_TitleOnlyLeavesProjectAlone(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Sprint", "", schedule.Dates{})
	tk := f.task(t, p.ID, "Old", span("2024-01-01", "2024-01-02", "2024-01-03"))
	before := f.reload(t, p.ID)

	title := "New"
	updated, err := UpdateTask(f.ctx, f.db, f.eng, f.org, tk.ID, TaskUpdateOpts{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, before.Version, f.reload(t, p.ID).Version)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Sprint", "", schedule.Dates{})
	f.task(t, p.ID, "Keep", span("2024-01-10", "2024-01-11", "2024-01-12"))
	drop := f.task(t, p.ID, "Drop", span("2024-01-01", "2024-01-02", "2024-03-01"))

	require.NoError(t, DeleteTask(f.ctx, f.db, f.eng, f.org, drop.ID))

	_, err := GetTask(f.db, f.org, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assertSpan(t, "2024-01-10", "2024-01-11", "2024-01-12", f.reload(t, p.ID))

	err = DeleteTask(f.ctx, f.db, f.eng, f.org, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree(t *testing.T) {
	f := newFixture(t)
	root := f.project(t, "Root", "", schedule.Dates{})
	sub := f.project(t, "Sub", root.ID, schedule.Dates{})
	f.task(t, sub.ID, "Task", span("", "2024-01-02", "2024-01-03"))

	prodID := "prd-1"
	projID := root.ID
	require.NoError(t, f.db.Create(&models.Product{ID: prodID, OrganizationID: f.org, Name: "Widget", ProjectID: &projID}).Error)
	require.NoError(t, f.db.Create(&models.ValueChain{ID: "vc-1", OrganizationID: f.org, ProductID: prodID, Name: "Assembly",
		EndDate: testutil.Day("2024-06-01")}).Error)

	tree, err := Tree(f.db, f.org, root.ID)
	require.NoError(t, err)
	assert.Equal(t, KindProject, tree.Kind)
	require.Len(t, tree.Children, 2)

	product, project := tree.Children[0], tree.Children[1]
	assert.Equal(t, KindProduct, product.Kind)
	assert.Equal(t, "Widget", product.Name)
	require.Len(t, product.Children, 1)
	assert.Equal(t, KindValueChain, product.Children[0].Kind)
	assertDay(t, "2024-06-01", product.Children[0].EndDate)

	assert.Equal(t, KindProject, project.Kind)
	assertDay(t, "2024-01-02", project.StartDate)
	require.Len(t, project.Children, 1)
	assert.Equal(t, KindTask, project.Children[0].Kind)

	_, err = Tree(f.db, f.org, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
