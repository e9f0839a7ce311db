// internal/workflow/engine.go
package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

// Engine applies task transitions against whatever status set the office
// currently has. There is no fixed state enum: the machine is parameterized
// by the office's columns, so every status reference is validated against
// live data at the moment of the write.
type Engine struct {
	scope *repo.Scoped
}

func NewEngine(scope *repo.Scoped) *Engine { return &Engine{scope: scope} }

type CreateTaskInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StatusID     *uuid.UUID `json:"status_id"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	AssigneeID   *uuid.UUID `json:"assignee_id"`
	ProjectID    *uuid.UUID `json:"project_id"`
	ParentTaskID *uuid.UUID `json:"parent_task_id"`
}

// validStatus confirms the id resolves to a column of this office. A column
// of another office and a column that does not exist are the same failure.
func (e *Engine) validStatus(ctx context.Context, id uuid.UUID) error {
	if _, err := e.scope.GetStatus(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidStatus
		}
		return err
	}
	return nil
}

// checkParent enforces the one-level subtask bound: the chosen parent must
// exist in the office and must not itself be a subtask.
func (e *Engine) checkParent(ctx context.Context, parentID uuid.UUID) error {
	parent, err := e.scope.GetTask(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ParentTaskID != nil {
		return models.ErrSubtaskDepth
	}
	return nil
}

// Create validates the input and resolves the status: an explicit status is
// checked against the office, otherwise the lowest-position column is the
// default. An office with no columns rejects the create — a task must never
// start detached from the workflow it will be reconciled against.
func (e *Engine) Create(ctx context.Context, in CreateTaskInput) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, models.ErrEmptyTitle
	}
	priority := models.Priority(in.Priority)
	if in.Priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, models.ErrInvalidPriority
	}

	statusID := in.StatusID
	if statusID != nil {
		if err := e.validStatus(ctx, *statusID); err != nil {
			return models.Task{}, err
		}
	} else {
		statuses, err := e.scope.ListStatuses(ctx)
		if err != nil {
			return models.Task{}, err
		}
		if len(statuses) == 0 {
			return models.Task{}, models.ErrNoStatusConfigured
		}
		statusID = &statuses[0].ID
	}

	if in.ProjectID != nil {
		if _, err := e.scope.GetProject(ctx, *in.ProjectID); err != nil {
			return models.Task{}, err
		}
	}
	if in.ParentTaskID != nil {
		if err := e.checkParent(ctx, *in.ParentTaskID); err != nil {
			return models.Task{}, err
		}
	}

	return e.scope.CreateTask(ctx, models.Task{
		Title:        title,
		Description:  in.Description,
		StatusID:     statusID,
		Priority:     priority,
		DueDate:      in.DueDate,
		AssigneeID:   in.AssigneeID,
		ProjectID:    in.ProjectID,
		ParentTaskID: in.ParentTaskID,
	})
}

// Move puts the task into the given column. Moving a task to the column it
// is already in is a no-op, not an error; the same gesture replayed must not
// fail.
func (e *Engine) Move(ctx context.Context, taskID, statusID uuid.UUID) (models.Task, error) {
	t, err := e.scope.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if t.StatusID != nil && *t.StatusID == statusID {
		return t, nil
	}
	if err := e.validStatus(ctx, statusID); err != nil {
		return models.Task{}, err
	}
	return e.scope.SetTaskStatus(ctx, taskID, &statusID)
}

// Update merges a field patch. A status change inside the patch goes through
// the same validation as Move.
func (e *Engine) Update(ctx context.Context, taskID uuid.UUID, patch repo.TaskPatch) (models.Task, error) {
	if _, err := e.scope.GetTask(ctx, taskID); err != nil {
		return models.Task{}, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Task{}, models.ErrEmptyTitle
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return models.Task{}, models.ErrInvalidPriority
	}
	if patch.StatusID != nil && *patch.StatusID != nil {
		if err := e.validStatus(ctx, **patch.StatusID); err != nil {
			return models.Task{}, err
		}
	}
	if patch.ParentTaskID != nil && *patch.ParentTaskID != nil {
		if **patch.ParentTaskID == taskID {
			return models.Task{}, models.ErrSubtaskDepth
		}
		if err := e.checkParent(ctx, **patch.ParentTaskID); err != nil {
			return models.Task{}, err
		}
		// The task becoming a subtask must not have subtasks of its own.
		children, err := e.scope.ListTasks(ctx, repo.TaskFilter{ParentID: &taskID})
		if err != nil {
			return models.Task{}, err
		}
		if len(children) > 0 {
			return models.Task{}, models.ErrSubtaskDepth
		}
	}
	return e.scope.UpdateTask(ctx, taskID, patch)
}

// Delete removes the task; its direct subtasks are kept and promoted to
// top-level (parent reference cleared by the store).
func (e *Engine) Delete(ctx context.Context, taskID uuid.UUID) error {
	return e.scope.DeleteTask(ctx, taskID)
}

// Get returns one task of the office.
func (e *Engine) Get(ctx context.Context, taskID uuid.UUID) (models.Task, error) {
	return e.scope.GetTask(ctx, taskID)
}

// List returns the office's tasks, optionally filtered.
func (e *Engine) List(ctx context.Context, f repo.TaskFilter) ([]models.Task, error) {
	return e.scope.ListTasks(ctx, f)
}

// BoardColumn is one column of the board response: a status plus its tasks.
type BoardColumn struct {
	Status models.WorkflowStatus `json:"status"`
	Tasks  []models.Task         `json:"tasks"`
}

// Board groups the office's tasks under its ordered columns. Tasks without
// a status (their column was deleted) land in Unassigned.
type Board struct {
	Columns    []BoardColumn `json:"columns"`
	Unassigned []models.Task `json:"unassigned"`
}

// BuildBoard assembles the authoritative board the optimistic client
// refetches after a confirmed move.
func (e *Engine) BuildBoard(ctx context.Context) (Board, error) {
	statuses, err := e.scope.ListStatuses(ctx)
	if err != nil {
		return Board{}, err
	}
	tasks, err := e.scope.ListTasks(ctx, repo.TaskFilter{})
	if err != nil {
		return Board{}, err
	}

	byStatus := make(map[uuid.UUID][]models.Task, len(statuses))
	board := Board{Columns: make([]BoardColumn, 0, len(statuses)), Unassigned: []models.Task{}}
	for _, t := range tasks {
		if t.StatusID == nil {
			board.Unassigned = append(board.Unassigned, t)
			continue
		}
		byStatus[*t.StatusID] = append(byStatus[*t.StatusID], t)
	}
	for _, s := range statuses {
		col := BoardColumn{Status: s, Tasks: byStatus[s.ID]}
		if col.Tasks == nil {
			col.Tasks = []models.Task{}
		}
		board.Columns = append(board.Columns, col)
	}
	return board, nil
}
