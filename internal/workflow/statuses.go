// internal/workflow/statuses.go
package workflow

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

// colorPattern validates the hex color attached to a column.
var colorPattern = regexp.MustCompile("^#[0-9a-fA-F]{6}$")

// Statuses owns the ordered set of Kanban columns for one office. All
// methods act through the office-scoped handle, so every rule here is
// already tenant-isolated.
type Statuses struct {
	scope *repo.Scoped
}

func NewStatuses(scope *repo.Scoped) *Statuses { return &Statuses{scope: scope} }

type CreateStatusInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position *int   `json:"position"`
}

func (s *Statuses) Create(ctx context.Context, in CreateStatusInput) (models.WorkflowStatus, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.WorkflowStatus{}, models.ErrEmptyName
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		return models.WorkflowStatus{}, models.ErrInvalidColor
	}
	// Position -1 tells the store to append after the last column.
	pos := -1
	if in.Position != nil && *in.Position >= 0 {
		pos = *in.Position
	}
	return s.scope.CreateStatus(ctx, models.WorkflowStatus{
		Name:     name,
		Color:    in.Color,
		Position: pos,
	})
}

// List returns the office's columns ascending by position, ties by id. An
// office with no columns gets an empty list, never an error: the board
// degrades to its unassigned state.
func (s *Statuses) List(ctx context.Context) ([]models.WorkflowStatus, error) {
	return s.scope.ListStatuses(ctx)
}

func (s *Statuses) Update(ctx context.Context, id uuid.UUID, patch repo.StatusPatch) (models.WorkflowStatus, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.WorkflowStatus{}, models.ErrEmptyName
	}
	if patch.Color != nil && *patch.Color != "" && !colorPattern.MatchString(*patch.Color) {
		return models.WorkflowStatus{}, models.ErrInvalidColor
	}
	return s.scope.UpdateStatus(ctx, id, patch)
}

// Reorder assigns positions 0..n-1 following the given id order. Every id
// must resolve inside the office or the whole batch is rejected.
func (s *Statuses) Reorder(ctx context.Context, ids []uuid.UUID) ([]models.WorkflowStatus, error) {
	if len(ids) == 0 {
		return s.scope.ListStatuses(ctx)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, models.ErrInvalidStatus
		}
		seen[id] = struct{}{}
	}
	return s.scope.ReorderStatuses(ctx, ids)
}

// Delete removes a column. Tasks referencing it have their status cleared in
// the same transaction; they stay on the board as unassigned.
func (s *Statuses) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.DeleteStatus(ctx, id)
}
