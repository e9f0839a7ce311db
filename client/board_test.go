// client/board_test.go
package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/workflow"
)

type boardFixture struct {
	todo, doing uuid.UUID
	a, b, c     uuid.UUID // a,b start in todo; c in doing
	loose       uuid.UUID // unassigned
	state       BoardState
}

func newBoardFixture() boardFixture {
	f := boardFixture{
		todo:  uuid.New(),
		doing: uuid.New(),
		a:     uuid.New(),
		b:     uuid.New(),
		c:     uuid.New(),
		loose: uuid.New(),
	}
	task := func(id uuid.UUID, title string, status *uuid.UUID) models.Task {
		return models.Task{ID: id, Title: title, StatusID: status, Priority: models.PriorityMedium}
	}
	f.state = FromBoard(workflow.Board{
		Columns: []workflow.BoardColumn{
			{
				Status: models.WorkflowStatus{ID: f.todo, Name: "Todo", Position: 0},
				Tasks:  []models.Task{task(f.a, "a", &f.todo), task(f.b, "b", &f.todo)},
			},
			{
				Status: models.WorkflowStatus{ID: f.doing, Name: "Doing", Position: 1},
				Tasks:  []models.Task{task(f.c, "c", &f.doing)},
			},
		},
		Unassigned: []models.Task{task(f.loose, "loose", nil)},
	})
	return f
}

func columnIDs(s BoardState, statusID uuid.UUID) []uuid.UUID {
	for _, c := range s.Columns {
		if c.Status.ID == statusID {
			return c.TaskIDs
		}
	}
	return nil
}

func TestApplyMoveAcrossColumns(t *testing.T) {
	f := newBoardFixture()

	next, patch, ok := ApplyMove(f.state, f.a, DropTarget{StatusID: &f.doing})
	require.True(t, ok)

	assert.Equal(t, []uuid.UUID{f.b}, columnIDs(next, f.todo))
	assert.Equal(t, []uuid.UUID{f.c, f.a}, columnIDs(next, f.doing))
	got, _ := next.StatusOf(f.a)
	require.NotNil(t, got)
	assert.Equal(t, f.doing, *got)

	assert.Equal(t, f.a, patch.TaskID)
	require.NotNil(t, patch.From)
	assert.Equal(t, f.todo, *patch.From)
	assert.False(t, patch.NonDurable)

	// The input state is untouched.
	assert.Equal(t, []uuid.UUID{f.a, f.b}, columnIDs(f.state, f.todo))
}

func TestApplyMoveInsertBefore(t *testing.T) {
	f := newBoardFixture()

	next, _, ok := ApplyMove(f.state, f.c, DropTarget{StatusID: &f.todo, BeforeTask: &f.b})
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{f.a, f.c, f.b}, columnIDs(next, f.todo))
}

func TestApplyMoveIntraColumnIsNonDurable(t *testing.T) {
	f := newBoardFixture()

	next, patch, ok := ApplyMove(f.state, f.b, DropTarget{StatusID: &f.todo, BeforeTask: &f.a})
	require.True(t, ok)
	assert.True(t, patch.NonDurable)
	assert.Equal(t, []uuid.UUID{f.b, f.a}, columnIDs(next, f.todo))
}

func TestApplyMoveToUnassigned(t *testing.T) {
	f := newBoardFixture()

	next, patch, ok := ApplyMove(f.state, f.a, DropTarget{})
	require.True(t, ok)
	assert.Nil(t, patch.To)
	assert.Contains(t, next.Unassigned, f.a)
	got, known := next.StatusOf(f.a)
	assert.True(t, known)
	assert.Nil(t, got)
}

func TestApplyMoveRejectsUnknowns(t *testing.T) {
	f := newBoardFixture()

	_, _, ok := ApplyMove(f.state, uuid.New(), DropTarget{StatusID: &f.doing})
	assert.False(t, ok)

	ghost := uuid.New()
	_, _, ok = ApplyMove(f.state, f.a, DropTarget{StatusID: &ghost})
	assert.False(t, ok)
}

// Revert restores exactly the gesture's own move and brings the state back to
// the pre-gesture snapshot.
func TestRevertRestoresPreGestureState(t *testing.T) {
	f := newBoardFixture()

	next, patch, ok := ApplyMove(f.state, f.a, DropTarget{StatusID: &f.doing})
	require.True(t, ok)

	back := Revert(next, patch)
	assert.Equal(t, columnIDs(f.state, f.todo), columnIDs(back, f.todo))
	assert.Equal(t, columnIDs(f.state, f.doing), columnIDs(back, f.doing))
	got, _ := back.StatusOf(f.a)
	require.NotNil(t, got)
	assert.Equal(t, f.todo, *got)
}

// If a later gesture has moved the task on, the earlier patch no longer owns
// it and its revert must be a no-op.
func TestRevertOnlyOwnPatch(t *testing.T) {
	f := newBoardFixture()

	s1, patch1, ok := ApplyMove(f.state, f.a, DropTarget{StatusID: &f.doing})
	require.True(t, ok)
	s2, _, ok := ApplyMove(s1, f.a, DropTarget{StatusID: &f.todo})
	require.True(t, ok)

	after := Revert(s2, patch1)
	got, _ := after.StatusOf(f.a)
	require.NotNil(t, got)
	assert.Equal(t, f.todo, *got, "a later gesture owns the task; stale revert must not move it")
	assert.Equal(t, columnIDs(s2, f.todo), columnIDs(after, f.todo))
}

func TestRevertUnknownTaskIsNoop(t *testing.T) {
	f := newBoardFixture()
	patch := MovePatch{TaskID: uuid.New(), From: &f.todo, To: &f.doing}

	after := Revert(f.state, patch)
	assert.Equal(t, columnIDs(f.state, f.doing), columnIDs(after, f.doing))
}

func TestCloneIsIndependent(t *testing.T) {
	f := newBoardFixture()
	c := f.state.Clone()

	c.Columns[0].TaskIDs[0] = uuid.New()
	tsk := c.Tasks[f.a]
	tsk.Title = "mutated"
	c.Tasks[f.a] = tsk

	assert.Equal(t, f.a, f.state.Columns[0].TaskIDs[0])
	assert.Equal(t, "a", f.state.Tasks[f.a].Title)
}
