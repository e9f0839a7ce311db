// internal/repo/tasks.go
package repo

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// ---------------- Tasks ----------------

const taskCols = `id, office_id, title, description, status_id, priority,
	due_date, assignee_id, project_id, parent_task_id, created_at, updated_at`

func scanTask(row pgx.Row) (models.Task, error) {
	var (
		t                       models.Task
		status, asg, pr, parent pgtype.UUID
		due                     pgtype.Timestamptz
	)
	err := row.Scan(&t.ID, &t.OfficeID, &t.Title, &t.Description, &status, &t.Priority,
		&due, &asg, &pr, &parent, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	t.StatusID = fromOptUUID(status)
	t.DueDate = fromOptTime(due)
	t.AssigneeID = fromOptUUID(asg)
	t.ProjectID = fromOptUUID(pr)
	t.ParentTaskID = fromOptUUID(parent)
	return t, nil
}

func (p *pgStore) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	slog.DebugContext(ctx, "CreateTask", "office_id", t.OfficeID.String(), "title", t.Title)
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, office_id, title, description, status_id, priority,
		                    due_date, assignee_id, project_id, parent_task_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		 RETURNING created_at, updated_at`,
		toPgUUID(t.ID), toPgUUID(t.OfficeID), t.Title, t.Description,
		optUUID(t.StatusID), string(t.Priority), optTime(t.DueDate),
		optUUID(t.AssigneeID), optUUID(t.ProjectID), optUUID(t.ParentTaskID),
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateTask failed", "err", err)
		return models.Task{}, err
	}
	return t, nil
}

func (p *pgStore) GetTask(ctx context.Context, officeID, id uuid.UUID) (models.Task, error) {
	t, err := scanTask(p.pool.QueryRow(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(id),
	))
	if err != nil {
		return models.Task{}, notFoundIfNoRows(err)
	}
	return t, nil
}

func (p *pgStore) ListTasks(ctx context.Context, officeID uuid.UUID, f TaskFilter) ([]models.Task, error) {
	// Optional filters AND-compose with the office predicate, never replace it.
	q := `SELECT ` + taskCols + ` FROM tasks WHERE office_id = $1`
	args := []any{toPgUUID(officeID)}
	if f.ProjectID != nil {
		args = append(args, toPgUUID(*f.ProjectID))
		q += ` AND project_id = $2`
	}
	if f.StatusID != nil {
		args = append(args, toPgUUID(*f.StatusID))
		q += ` AND status_id = $` + itoa(len(args))
	}
	if f.AssigneeID != nil {
		args = append(args, toPgUUID(*f.AssigneeID))
		q += ` AND assignee_id = $` + itoa(len(args))
	}
	if f.ParentID != nil {
		args = append(args, toPgUUID(*f.ParentID))
		q += ` AND parent_task_id = $` + itoa(len(args))
	}
	q += ` ORDER BY created_at, id`

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListTasks failed", "err", err)
		return nil, err
	}
	defer rows.Close()
	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTask reads the row inside a transaction, applies the patch in Go and
// writes the merged row back. The double-pointer patch fields distinguish
// "unchanged" from "clear", which a COALESCE update cannot express.
func (p *pgStore) UpdateTask(ctx context.Context, officeID, id uuid.UUID, patch TaskPatch) (models.Task, error) {
	slog.DebugContext(ctx, "UpdateTask", "office_id", officeID.String(), "task_id", id.String())
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Task{}, err
	}
	defer tx.Rollback(ctx)

	t, err := scanTask(tx.QueryRow(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE id = $2 AND office_id = $1 FOR UPDATE`,
		toPgUUID(officeID), toPgUUID(id),
	))
	if err != nil {
		return models.Task{}, notFoundIfNoRows(err)
	}

	ApplyTaskPatch(&t, patch)

	err = tx.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $3, description = $4, status_id = $5, priority = $6,
		     due_date = $7, assignee_id = $8, project_id = $9, parent_task_id = $10,
		     updated_at = now()
		 WHERE id = $2 AND office_id = $1
		 RETURNING updated_at`,
		toPgUUID(officeID), toPgUUID(id), t.Title, t.Description,
		optUUID(t.StatusID), string(t.Priority), optTime(t.DueDate),
		optUUID(t.AssigneeID), optUUID(t.ProjectID), optUUID(t.ParentTaskID),
	).Scan(&t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (p *pgStore) SetTaskStatus(ctx context.Context, officeID, id uuid.UUID, statusID *uuid.UUID) (models.Task, error) {
	slog.DebugContext(ctx, "SetTaskStatus", "office_id", officeID.String(), "task_id", id.String())
	t, err := scanTask(p.pool.QueryRow(ctx,
		`UPDATE tasks SET status_id = $3, updated_at = now()
		 WHERE id = $2 AND office_id = $1
		 RETURNING `+taskCols,
		toPgUUID(officeID), toPgUUID(id), optUUID(statusID),
	))
	if err != nil {
		return models.Task{}, notFoundIfNoRows(err)
	}
	return t, nil
}

func (p *pgStore) DeleteTask(ctx context.Context, officeID, id uuid.UUID) error {
	slog.DebugContext(ctx, "DeleteTask", "office_id", officeID.String(), "task_id", id.String())
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET parent_task_id = NULL, updated_at = now()
		 WHERE office_id = $1 AND parent_task_id = $2`,
		toPgUUID(officeID), toPgUUID(id),
	); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return tx.Commit(ctx)
}

// ApplyTaskPatch merges a patch into a task. Shared by the Postgres and
// in-memory stores so both apply identical merge semantics.
func ApplyTaskPatch(t *models.Task, patch TaskPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.StatusID != nil {
		t.StatusID = *patch.StatusID
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.AssigneeID != nil {
		t.AssigneeID = *patch.AssigneeID
	}
	if patch.ProjectID != nil {
		t.ProjectID = *patch.ProjectID
	}
	if patch.ParentTaskID != nil {
		t.ParentTaskID = *patch.ParentTaskID
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
