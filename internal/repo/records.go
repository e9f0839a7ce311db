// internal/repo/records.go
package repo

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

// ---------------- Clients ----------------

func (p *pgStore) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	slog.DebugContext(ctx, "CreateClient", "office_id", c.OfficeID.String(), "name", c.Name)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO clients (id, office_id, name, email, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING created_at`,
		toPgUUID(c.ID), toPgUUID(c.OfficeID), c.Name, c.Email, c.Phone,
	).Scan(&c.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateClient failed", "err", err)
		return models.Client{}, err
	}
	return c, nil
}

func (p *pgStore) GetClient(ctx context.Context, officeID, id uuid.UUID) (models.Client, error) {
	var c models.Client
	err := p.pool.QueryRow(ctx,
		`SELECT id, office_id, name, email, phone, created_at
		 FROM clients WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(id),
	).Scan(&c.ID, &c.OfficeID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return models.Client{}, notFoundIfNoRows(err)
	}
	return c, nil
}

func (p *pgStore) ListClients(ctx context.Context, officeID uuid.UUID) ([]models.Client, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, office_id, name, email, phone, created_at
		 FROM clients WHERE office_id = $1 ORDER BY created_at, id`,
		toPgUUID(officeID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.OfficeID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *pgStore) UpdateClient(ctx context.Context, officeID, id uuid.UUID, patch ClientPatch) (models.Client, error) {
	var c models.Client
	err := p.pool.QueryRow(ctx,
		`UPDATE clients
		 SET name = COALESCE($3, name), email = COALESCE($4, email), phone = COALESCE($5, phone)
		 WHERE id = $2 AND office_id = $1
		 RETURNING id, office_id, name, email, phone, created_at`,
		toPgUUID(officeID), toPgUUID(id), optText(patch.Name), optText(patch.Email), optText(patch.Phone),
	).Scan(&c.ID, &c.OfficeID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return models.Client{}, notFoundIfNoRows(err)
	}
	return c, nil
}

func (p *pgStore) DeleteClient(ctx context.Context, officeID, id uuid.UUID) error {
	slog.DebugContext(ctx, "DeleteClient", "office_id", officeID.String(), "client_id", id.String())
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE projects SET client_id = NULL WHERE office_id = $1 AND client_id = $2`,
		toPgUUID(officeID), toPgUUID(id),
	); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM clients WHERE id = $2 AND office_id = $1`,
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

// ---------------- Projects ----------------

func (p *pgStore) CreateProject(ctx context.Context, pr models.Project) (models.Project, error) {
	slog.DebugContext(ctx, "CreateProject", "office_id", pr.OfficeID.String(), "name", pr.Name)
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO projects (id, office_id, name, description, client_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING created_at`,
		toPgUUID(pr.ID), toPgUUID(pr.OfficeID), pr.Name, pr.Description, optUUID(pr.ClientID),
	).Scan(&pr.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateProject failed", "err", err)
		return models.Project{}, err
	}
	return pr, nil
}

func (p *pgStore) GetProject(ctx context.Context, officeID, id uuid.UUID) (models.Project, error) {
	var (
		pr  models.Project
		cid pgtype.UUID
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id, office_id, name, description, client_id, created_at
		 FROM projects WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(id),
	).Scan(&pr.ID, &pr.OfficeID, &pr.Name, &pr.Description, &cid, &pr.CreatedAt)
	if err != nil {
		return models.Project{}, notFoundIfNoRows(err)
	}
	pr.ClientID = fromOptUUID(cid)
	return pr, nil
}

func (p *pgStore) ListProjects(ctx context.Context, officeID uuid.UUID) ([]models.Project, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, office_id, name, description, client_id, created_at
		 FROM projects WHERE office_id = $1 ORDER BY created_at, id`,
		toPgUUID(officeID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Project{}
	for rows.Next() {
		var (
			pr  models.Project
			cid pgtype.UUID
		)
		if err := rows.Scan(&pr.ID, &pr.OfficeID, &pr.Name, &pr.Description, &cid, &pr.CreatedAt); err != nil {
			return nil, err
		}
		pr.ClientID = fromOptUUID(cid)
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p *pgStore) UpdateProject(ctx context.Context, officeID, id uuid.UUID, patch ProjectPatch) (models.Project, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Project{}, err
	}
	defer tx.Rollback(ctx)

	pr, err := p.GetProject(ctx, officeID, id)
	if err != nil {
		return models.Project{}, err
	}
	if patch.Name != nil {
		pr.Name = *patch.Name
	}
	if patch.Description != nil {
		pr.Description = *patch.Description
	}
	if patch.ClientID != nil {
		pr.ClientID = *patch.ClientID
	}
	if _, err := tx.Exec(ctx,
		`UPDATE projects SET name = $3, description = $4, client_id = $5
		 WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(id), pr.Name, pr.Description, optUUID(pr.ClientID),
	); err != nil {
		return models.Project{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Project{}, err
	}
	return pr, nil
}

// DeleteProject removes the project together with its tasks.
func (p *pgStore) DeleteProject(ctx context.Context, officeID, id uuid.UUID) error {
	slog.DebugContext(ctx, "DeleteProject", "office_id", officeID.String(), "project_id", id.String())
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE office_id = $1 AND project_id = $2`,
		toPgUUID(officeID), toPgUUID(id),
	); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM projects WHERE id = $2 AND office_id = $1`,
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
