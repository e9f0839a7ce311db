// internal/workflow/engine_test.go
package workflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

type fixture struct {
	store    repo.Store
	officeID uuid.UUID
	scope    *repo.Scoped
	engine   *Engine
	statuses *Statuses
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repo.NewMemory()
	office, err := store.CreateOffice(context.Background(), "Atelier Lima")
	require.NoError(t, err)
	scope := repo.ScopeTo(store, office.ID)
	return &fixture{
		store:    store,
		officeID: office.ID,
		scope:    scope,
		engine:   NewEngine(scope),
		statuses: NewStatuses(scope),
	}
}

func (f *fixture) mustStatus(t *testing.T, name string) models.WorkflowStatus {
	t.Helper()
	s, err := f.statuses.Create(context.Background(), CreateStatusInput{Name: name})
	require.NoError(t, err)
	return s
}

func TestCreateStatusAssignsPositions(t *testing.T) {
	f := newFixture(t)
	todo := f.mustStatus(t, "Todo")
	doing := f.mustStatus(t, "Doing")

	assert.Equal(t, 0, todo.Position)
	assert.Equal(t, 1, doing.Position)

	list, err := f.statuses.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Todo", list[0].Name)
	assert.Equal(t, "Doing", list[1].Name)
}

func TestCreateStatusDuplicateName(t *testing.T) {
	f := newFixture(t)
	f.mustStatus(t, "Todo")

	_, err := f.statuses.Create(context.Background(), CreateStatusInput{Name: "todo"})
	assert.ErrorIs(t, err, models.ErrDuplicateStatusName)
}

func TestCreateStatusRejectsBadColor(t *testing.T) {
	f := newFixture(t)
	_, err := f.statuses.Create(context.Background(), CreateStatusInput{Name: "Todo", Color: "red"})
	assert.ErrorIs(t, err, models.ErrInvalidColor)

	s, err := f.statuses.Create(context.Background(), CreateStatusInput{Name: "Todo", Color: "#aA12fF"})
	require.NoError(t, err)
	assert.Equal(t, "#aA12fF", s.Color)
}

func TestReorderStatuses(t *testing.T) {
	f := newFixture(t)
	a := f.mustStatus(t, "A")
	b := f.mustStatus(t, "B")
	c := f.mustStatus(t, "C")

	list, err := f.statuses.Reorder(context.Background(), []uuid.UUID{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "A", list[1].Name)
	assert.Equal(t, "B", list[2].Name)
}

func TestReorderRejectsForeignAndDuplicateIDs(t *testing.T) {
	f := newFixture(t)
	a := f.mustStatus(t, "A")

	_, err := f.statuses.Reorder(context.Background(), []uuid.UUID{a.ID, uuid.New()})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	_, err = f.statuses.Reorder(context.Background(), []uuid.UUID{a.ID, a.ID})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

// Creating a task with no explicit status lands it in the lowest-position
// column; an office with no columns rejects the create outright.
func TestDefaultStatusResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Create(ctx, CreateTaskInput{Title: "too early"})
	assert.ErrorIs(t, err, models.ErrNoStatusConfigured)

	s1 := f.mustStatus(t, "Todo")
	f.mustStatus(t, "Doing")

	task, err := f.engine.Create(ctx, CreateTaskInput{Title: "draft plans"})
	require.NoError(t, err)
	require.NotNil(t, task.StatusID)
	assert.Equal(t, s1.ID, *task.StatusID)
	assert.Equal(t, models.PriorityMedium, task.Priority)
}

func TestCreateTaskExplicitStatusValidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustStatus(t, "Todo")

	// Unknown status id.
	bogus := uuid.New()
	_, err := f.engine.Create(ctx, CreateTaskInput{Title: "x", StatusID: &bogus})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	// A status of another office is indistinguishable from a missing one.
	other, err := f.store.CreateOffice(ctx, "Other Office")
	require.NoError(t, err)
	foreign, err := f.store.CreateStatus(ctx, models.WorkflowStatus{OfficeID: other.ID, Name: "Their Todo"})
	require.NoError(t, err)
	_, err = f.engine.Create(ctx, CreateTaskInput{Title: "x", StatusID: &foreign.ID})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestCreateTaskValidatesPriorityAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustStatus(t, "Todo")

	_, err := f.engine.Create(ctx, CreateTaskInput{Title: "   "})
	assert.ErrorIs(t, err, models.ErrEmptyTitle)

	_, err = f.engine.Create(ctx, CreateTaskInput{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, models.ErrInvalidPriority)

	task, err := f.engine.Create(ctx, CreateTaskInput{Title: "x", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, task.Priority)
}

func TestMoveTaskIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustStatus(t, "Todo")
	doing := f.mustStatus(t, "Doing")

	task, err := f.engine.Create(ctx, CreateTaskInput{Title: "x"})
	require.NoError(t, err)

	moved, err := f.engine.Move(ctx, task.ID, doing.ID)
	require.NoError(t, err)
	assert.Equal(t, doing.ID, *moved.StatusID)

	// Same move again: no error, same state.
	again, err := f.engine.Move(ctx, task.ID, doing.ID)
	require.NoError(t, err)
	assert.Equal(t, doing.ID, *again.StatusID)
}

func TestDeleteStatusCascadesToNull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doomed := f.mustStatus(t, "Doomed")
	f.mustStatus(t, "Keeper")

	t1, err := f.engine.Create(ctx, CreateTaskInput{Title: "one", StatusID: &doomed.ID})
	require.NoError(t, err)
	t2, err := f.engine.Create(ctx, CreateTaskInput{Title: "two", StatusID: &doomed.ID})
	require.NoError(t, err)

	require.NoError(t, f.statuses.Delete(ctx, doomed.ID))

	for _, id := range []uuid.UUID{t1.ID, t2.ID} {
		got, err := f.engine.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got.StatusID, "task %s should be unassigned", id)
	}
	list, err := f.statuses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Keeper", list[0].Name)
}

func TestUpdateTaskRoutesStatusThroughValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustStatus(t, "Todo")
	doing := f.mustStatus(t, "Doing")

	task, err := f.engine.Create(ctx, CreateTaskInput{Title: "x"})
	require.NoError(t, err)

	bogus := uuid.New()
	ptr := &bogus
	_, err = f.engine.Update(ctx, task.ID, repo.TaskPatch{StatusID: &ptr})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	ok := &doing.ID
	updated, err := f.engine.Update(ctx, task.ID, repo.TaskPatch{StatusID: &ok})
	require.NoError(t, err)
	assert.Equal(t, doing.ID, *updated.StatusID)

	// Plain field merge leaves the status alone.
	title := "renamed"
	updated, err = f.engine.Update(ctx, task.ID, repo.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, doing.ID, *updated.StatusID)
}

func TestSubtaskDepthBoundedToOneLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustStatus(t, "Todo")

	parent, err := f.engine.Create(ctx, CreateTaskInput{Title: "parent"})
	require.NoError(t, err)
	child, err := f.engine.Create(ctx, CreateTaskInput{Title: "child", ParentTaskID: &parent.ID})
	require.NoError(t, err)

	// A subtask cannot be a parent.
	_, err = f.engine.Create(ctx, CreateTaskInput{Title: "grandchild", ParentTaskID: &child.ID})
	assert.ErrorIs(t, err, models.ErrSubtaskDepth)

	// A task with subtasks cannot become a subtask itself.
	other, err := f.engine.Create(ctx, CreateTaskInput{Title: "other"})
	require.NoError(t, err)
	ref := &other.ID
	_, err = f.engine.Update(ctx, parent.ID, repo.TaskPatch{ParentTaskID: &ref})
	assert.ErrorIs(t, err, models.ErrSubtaskDepth)

	// Self-reference is out too.
	self := &other.ID
	_, err = f.engine.Update(ctx, other.ID, repo.TaskPatch{ParentTaskID: &self})
	assert.ErrorIs(t, err, models.ErrSubtaskDepth)
}

func TestDeleteTaskPromotesSubtasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustStatus(t, "Todo")

	parent, err := f.engine.Create(ctx, CreateTaskInput{Title: "parent"})
	require.NoError(t, err)
	child, err := f.engine.Create(ctx, CreateTaskInput{Title: "child", ParentTaskID: &parent.ID})
	require.NoError(t, err)

	require.NoError(t, f.engine.Delete(ctx, parent.ID))

	got, err := f.engine.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentTaskID)
}

// The full scenario from the workflow contract: default assignment, a valid
// move, then a cross-office move that must fail and change nothing.
func TestWorkflowScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	todo := f.mustStatus(t, "Todo")
	doing := f.mustStatus(t, "Doing")
	f.mustStatus(t, "Done")

	x, err := f.engine.Create(ctx, CreateTaskInput{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, todo.ID, *x.StatusID)

	x, err = f.engine.Move(ctx, x.ID, doing.ID)
	require.NoError(t, err)
	assert.Equal(t, doing.ID, *x.StatusID)

	officeB, err := f.store.CreateOffice(ctx, "Office B")
	require.NoError(t, err)
	foreign, err := f.store.CreateStatus(ctx, models.WorkflowStatus{OfficeID: officeB.ID, Name: "B Todo"})
	require.NoError(t, err)

	_, err = f.engine.Move(ctx, x.ID, foreign.ID)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	unchanged, err := f.engine.Get(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, doing.ID, *unchanged.StatusID)
}

func TestBuildBoardGroupsTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	todo := f.mustStatus(t, "Todo")
	doing := f.mustStatus(t, "Doing")

	a, err := f.engine.Create(ctx, CreateTaskInput{Title: "a"})
	require.NoError(t, err)
	b, err := f.engine.Create(ctx, CreateTaskInput{Title: "b", StatusID: &doing.ID})
	require.NoError(t, err)

	// Orphan a task by deleting its column.
	gone := f.mustStatus(t, "Gone")
	c, err := f.engine.Create(ctx, CreateTaskInput{Title: "c", StatusID: &gone.ID})
	require.NoError(t, err)
	require.NoError(t, f.statuses.Delete(ctx, gone.ID))

	board, err := f.engine.BuildBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board.Columns, 2)
	assert.Equal(t, todo.ID, board.Columns[0].Status.ID)
	require.Len(t, board.Columns[0].Tasks, 1)
	assert.Equal(t, a.ID, board.Columns[0].Tasks[0].ID)
	require.Len(t, board.Columns[1].Tasks, 1)
	assert.Equal(t, b.ID, board.Columns[1].Tasks[0].ID)
	require.Len(t, board.Unassigned, 1)
	assert.Equal(t, c.ID, board.Unassigned[0].ID)
}
