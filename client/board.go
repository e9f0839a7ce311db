// client/board.go
package client

import (
	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/workflow"
)

// Column is one rendered board column: its status and the ordered task ids.
type Column struct {
	Status  models.WorkflowStatus
	TaskIDs []uuid.UUID
}

// BoardState is the client-held mirror of the board. It is a value: the
// reducer below never mutates its input, it returns a new state, which keeps
// every gesture's pre-state available for revert.
type BoardState struct {
	Columns    []Column
	Unassigned []uuid.UUID
	Tasks      map[uuid.UUID]models.Task
}

// FromBoard converts the server's board response into a mirror state.
func FromBoard(b workflow.Board) BoardState {
	s := BoardState{Tasks: map[uuid.UUID]models.Task{}}
	for _, col := range b.Columns {
		c := Column{Status: col.Status}
		for _, t := range col.Tasks {
			c.TaskIDs = append(c.TaskIDs, t.ID)
			s.Tasks[t.ID] = t
		}
		s.Columns = append(s.Columns, c)
	}
	for _, t := range b.Unassigned {
		s.Unassigned = append(s.Unassigned, t.ID)
		s.Tasks[t.ID] = t
	}
	return s
}

// Clone deep-copies the state.
func (s BoardState) Clone() BoardState {
	out := BoardState{
		Columns:    make([]Column, len(s.Columns)),
		Unassigned: append([]uuid.UUID(nil), s.Unassigned...),
		Tasks:      make(map[uuid.UUID]models.Task, len(s.Tasks)),
	}
	for i, c := range s.Columns {
		out.Columns[i] = Column{Status: c.Status, TaskIDs: append([]uuid.UUID(nil), c.TaskIDs...)}
	}
	for id, t := range s.Tasks {
		out.Tasks[id] = t
	}
	return out
}

// StatusOf returns the column a task currently sits in, nil for unassigned.
func (s BoardState) StatusOf(taskID uuid.UUID) (*uuid.UUID, bool) {
	t, ok := s.Tasks[taskID]
	if !ok {
		return nil, false
	}
	return t.StatusID, true
}

// DropTarget names where a drag ended: a column (nil StatusID means the
// unassigned area) and optionally the task to insert before.
type DropTarget struct {
	StatusID   *uuid.UUID
	BeforeTask *uuid.UUID
}

// MovePatch records one applied gesture together with enough information to
// undo exactly that gesture and nothing else.
type MovePatch struct {
	TaskID uuid.UUID
	From   *uuid.UUID // column before the gesture
	To     *uuid.UUID // column after the gesture
	// NonDurable marks an intra-column reorder the backend does not
	// persist: visual only, gone on the next refetch.
	NonDurable bool
}

func sameColumn(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertID(ids []uuid.UUID, id uuid.UUID, before *uuid.UUID) []uuid.UUID {
	if before != nil {
		for i, v := range ids {
			if v == *before {
				out := append([]uuid.UUID(nil), ids[:i]...)
				out = append(out, id)
				return append(out, ids[i:]...)
			}
		}
	}
	return append(append([]uuid.UUID(nil), ids...), id)
}

// ApplyMove is the pure reducer behind the drag protocol: it moves taskID to
// the target and reports what changed. Unknown tasks and unknown target
// columns leave the state untouched (ok=false).
func ApplyMove(s BoardState, taskID uuid.UUID, target DropTarget) (BoardState, MovePatch, bool) {
	from, known := s.StatusOf(taskID)
	if !known {
		return s, MovePatch{}, false
	}
	if target.StatusID != nil {
		found := false
		for _, c := range s.Columns {
			if c.Status.ID == *target.StatusID {
				found = true
				break
			}
		}
		if !found {
			return s, MovePatch{}, false
		}
	}

	next := s.Clone()
	for i := range next.Columns {
		next.Columns[i].TaskIDs = removeID(next.Columns[i].TaskIDs, taskID)
	}
	next.Unassigned = removeID(next.Unassigned, taskID)

	if target.StatusID == nil {
		next.Unassigned = insertID(next.Unassigned, taskID, target.BeforeTask)
	} else {
		for i := range next.Columns {
			if next.Columns[i].Status.ID == *target.StatusID {
				next.Columns[i].TaskIDs = insertID(next.Columns[i].TaskIDs, taskID, target.BeforeTask)
				break
			}
		}
	}

	t := next.Tasks[taskID]
	t.StatusID = target.StatusID
	next.Tasks[taskID] = t

	patch := MovePatch{
		TaskID:     taskID,
		From:       from,
		To:         target.StatusID,
		NonDurable: sameColumn(from, target.StatusID),
	}
	return next, patch, true
}

// Revert undoes one gesture's patch. It only acts if the task still sits
// where that gesture put it; if a later gesture has since moved the task,
// the later gesture owns it and this revert is a no-op.
func Revert(s BoardState, patch MovePatch) BoardState {
	cur, known := s.StatusOf(patch.TaskID)
	if !known || !sameColumn(cur, patch.To) {
		return s
	}
	next, _, ok := ApplyMove(s, patch.TaskID, DropTarget{StatusID: patch.From})
	if !ok {
		// The origin column is gone (deleted meanwhile); unassigned is
		// the only safe place left.
		next, _, _ = ApplyMove(s, patch.TaskID, DropTarget{})
	}
	return next
}
