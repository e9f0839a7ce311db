// client/mirror.go
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// ErrUnknownTask is returned when a drag names a task the mirror has never
// seen (stale id after a refetch, or a task deleted server-side).
var ErrUnknownTask = errors.New("client: unknown task")

// Mirror holds the optimistic board state and runs the drag protocol:
//
//	drag, _ := m.BeginDrag(taskID)
//	drag.Over(target)            // repeated while hovering
//	res := drag.Drop(ctx, target)
//	err := <-res.Done            // nil, or the server's rejection
//
// Drop mutates the mirror immediately, then confirms with the server in the
// background. Success refetches the authoritative board and overwrites the
// mirror; failure reverts exactly this gesture's patch. Concurrent gestures
// each carry their own patch, so one failure never clobbers another
// in-flight move.
type Mirror struct {
	mu    sync.Mutex
	api   *API
	state BoardState
}

func NewMirror(api *API) *Mirror {
	return &Mirror{api: api, state: BoardState{Tasks: map[uuid.UUID]models.Task{}}}
}

// Refresh replaces the mirror with the server's board.
func (m *Mirror) Refresh(ctx context.Context) error {
	board, err := m.api.Board(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.state = FromBoard(board)
	m.mu.Unlock()
	return nil
}

// State returns a copy of the current mirror state.
func (m *Mirror) State() BoardState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Drag is one in-flight gesture. It captures nothing but the task id at
// BeginDrag; the patch is computed at Drop time against the then-current
// mirror.
type Drag struct {
	mirror *Mirror
	taskID uuid.UUID
	over   *DropTarget
}

// BeginDrag starts a gesture for the task.
func (m *Mirror) BeginDrag(taskID uuid.UUID) (*Drag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.Tasks[taskID]; !ok {
		return nil, ErrUnknownTask
	}
	return &Drag{mirror: m, taskID: taskID}, nil
}

// Over records the current hover target. Purely informational: it lets a
// renderer highlight the column under the pointer.
func (d *Drag) Over(target DropTarget) {
	t := target
	d.over = &t
}

// Hovering returns the last target passed to Over, nil before any hover.
func (d *Drag) Hovering() *DropTarget { return d.over }

// DropResult reports the outcome of a drop.
type DropResult struct {
	// NonDurable is true for an intra-column reorder: applied locally but
	// not persisted by the backend. Surface this to the user.
	NonDurable bool
	// Done yields the reconciliation outcome once: nil after the server
	// confirmed (and the mirror was refetched), or the rejection error
	// after the mirror was reverted. Closed without a value when the
	// caller's context ended first; the server write still completes.
	Done <-chan error
}

// Drop applies the move to the mirror immediately and reconciles with the
// server asynchronously.
func (d *Drag) Drop(ctx context.Context, target DropTarget) DropResult {
	m := d.mirror
	done := make(chan error, 1)

	m.mu.Lock()
	next, patch, ok := ApplyMove(m.state, d.taskID, target)
	if !ok {
		m.mu.Unlock()
		done <- ErrUnknownTask
		return DropResult{Done: done}
	}
	m.state = next
	m.mu.Unlock()

	if patch.NonDurable || target.StatusID == nil {
		// Intra-column reorder, or a drop back onto the unassigned area:
		// nothing the backend persists. Local-only by contract.
		done <- nil
		return DropResult{NonDurable: true, Done: done}
	}

	go m.reconcile(ctx, patch, done)
	return DropResult{Done: done}
}

// reconcile confirms one patch with the server. The write runs on a context
// detached from the gesture's: cancelling the caller (say, the board view
// unmounted) suppresses the notification, never the server write.
func (m *Mirror) reconcile(callerCtx context.Context, patch MovePatch, done chan<- error) {
	ctx := context.WithoutCancel(callerCtx)

	_, err := m.api.MoveTask(ctx, patch.TaskID, *patch.To)
	if err != nil {
		m.mu.Lock()
		m.state = Revert(m.state, patch)
		m.mu.Unlock()
		m.notify(callerCtx, done, err)
		return
	}

	// Confirmed: the server is authoritative, let its board overwrite the
	// optimistic mirror. A refetch failure is not a desync — the move is
	// durable — so it is reported as retryable noise, not reverted.
	if refreshErr := m.Refresh(ctx); refreshErr != nil {
		m.notify(callerCtx, done, refreshErr)
		return
	}
	m.notify(callerCtx, done, nil)
}

func (m *Mirror) notify(callerCtx context.Context, done chan<- error, err error) {
	select {
	case <-callerCtx.Done():
		close(done)
	default:
		done <- err
	}
}
