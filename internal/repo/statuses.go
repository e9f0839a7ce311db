// internal/repo/statuses.go
package repo

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// ---------------- Workflow statuses ----------------

func (p *pgStore) CreateStatus(ctx context.Context, s models.WorkflowStatus) (models.WorkflowStatus, error) {
	slog.DebugContext(ctx, "CreateStatus", "office_id", s.OfficeID.String(), "name", s.Name)
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	// Position < 0 means "append": max(position)+1, 0 for the first column.
	err := p.pool.QueryRow(ctx,
		`INSERT INTO workflow_statuses (id, office_id, name, color, position, created_at)
		 VALUES ($1, $2, $3, $4,
		         CASE WHEN $5 < 0
		              THEN COALESCE((SELECT max(position) + 1 FROM workflow_statuses WHERE office_id = $2), 0)
		              ELSE $5 END,
		         now())
		 RETURNING position, created_at`,
		toPgUUID(s.ID), toPgUUID(s.OfficeID), s.Name, s.Color, s.Position,
	).Scan(&s.Position, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.WorkflowStatus{}, models.ErrDuplicateStatusName
		}
		slog.ErrorContext(ctx, "CreateStatus failed", "err", err)
		return models.WorkflowStatus{}, err
	}
	return s, nil
}

func (p *pgStore) GetStatus(ctx context.Context, officeID, id uuid.UUID) (models.WorkflowStatus, error) {
	var s models.WorkflowStatus
	err := p.pool.QueryRow(ctx,
		`SELECT id, office_id, name, color, position, created_at
		 FROM workflow_statuses WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(id),
	).Scan(&s.ID, &s.OfficeID, &s.Name, &s.Color, &s.Position, &s.CreatedAt)
	if err != nil {
		return models.WorkflowStatus{}, notFoundIfNoRows(err)
	}
	return s, nil
}

func (p *pgStore) ListStatuses(ctx context.Context, officeID uuid.UUID) ([]models.WorkflowStatus, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, office_id, name, color, position, created_at
		 FROM workflow_statuses WHERE office_id = $1
		 ORDER BY position, id`,
		toPgUUID(officeID),
	)
	if err != nil {
		slog.ErrorContext(ctx, "ListStatuses failed", "err", err)
		return nil, err
	}
	defer rows.Close()
	out := []models.WorkflowStatus{}
	for rows.Next() {
		var s models.WorkflowStatus
		if err := rows.Scan(&s.ID, &s.OfficeID, &s.Name, &s.Color, &s.Position, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *pgStore) UpdateStatus(ctx context.Context, officeID, id uuid.UUID, patch StatusPatch) (models.WorkflowStatus, error) {
	slog.DebugContext(ctx, "UpdateStatus", "office_id", officeID.String(), "status_id", id.String())
	var s models.WorkflowStatus
	err := p.pool.QueryRow(ctx,
		`UPDATE workflow_statuses
		 SET name     = COALESCE($3, name),
		     color    = COALESCE($4, color),
		     position = COALESCE($5, position)
		 WHERE id = $2 AND office_id = $1
		 RETURNING id, office_id, name, color, position, created_at`,
		toPgUUID(officeID), toPgUUID(id), optText(patch.Name), optText(patch.Color), optInt(patch.Position),
	).Scan(&s.ID, &s.OfficeID, &s.Name, &s.Color, &s.Position, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.WorkflowStatus{}, models.ErrDuplicateStatusName
		}
		return models.WorkflowStatus{}, notFoundIfNoRows(err)
	}
	return s, nil
}

func (p *pgStore) ReorderStatuses(ctx context.Context, officeID uuid.UUID, ids []uuid.UUID) ([]models.WorkflowStatus, error) {
	slog.DebugContext(ctx, "ReorderStatuses", "office_id", officeID.String(), "count", len(ids))
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			`UPDATE workflow_statuses SET position = $3 WHERE id = $2 AND office_id = $1`,
			toPgUUID(officeID), toPgUUID(id), i,
		)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, models.ErrInvalidStatus
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p.ListStatuses(ctx, officeID)
}

// DeleteStatus removes the column and clears every task reference to it in
// one transaction, so no reader ever observes a dangling status id.
func (p *pgStore) DeleteStatus(ctx context.Context, officeID, id uuid.UUID) error {
	slog.DebugContext(ctx, "DeleteStatus", "office_id", officeID.String(), "status_id", id.String())
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET status_id = NULL, updated_at = now()
		 WHERE office_id = $1 AND status_id = $2`,
		toPgUUID(officeID), toPgUUID(id),
	); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM workflow_statuses WHERE id = $2 AND office_id = $1`,
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
