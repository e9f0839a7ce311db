// internal/repo/pg.go
package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
)

//go:embed schema.sql
var schema string

// pgStore implements Store on a pgx pool.
type pgStore struct{ pool *pgxpool.Pool }

func NewPG(pool *pgxpool.Pool) Store { return &pgStore{pool: pool} }

// EnsureSchema applies the embedded schema. Statements are idempotent
// (CREATE TABLE IF NOT EXISTS), safe to run at every boot.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFoundIfNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

// ---------------- Offices ----------------

func (p *pgStore) CreateOffice(ctx context.Context, name string) (models.Office, error) {
	slog.DebugContext(ctx, "CreateOffice", "name", name)
	var o models.Office
	err := p.pool.QueryRow(ctx,
		`INSERT INTO offices (id, name, created_at) VALUES ($1, $2, now())
		 RETURNING id, name, created_at`,
		toPgUUID(uuid.New()), name,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateOffice failed", "err", err)
		return models.Office{}, err
	}
	return o, nil
}

func (p *pgStore) GetOffice(ctx context.Context, id uuid.UUID) (models.Office, error) {
	var o models.Office
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM offices WHERE id = $1`,
		toPgUUID(id),
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		return models.Office{}, notFoundIfNoRows(err)
	}
	return o, nil
}

// ---------------- Users ----------------

func (p *pgStore) CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error) {
	slog.DebugContext(ctx, "CreateUser", "email", u.Email, "role", string(u.Role))
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (id, office_id, name, email, role, password_hash, created_at)
		 VALUES ($1, $2, $3, lower($4), $5, $6, now())
		 RETURNING created_at`,
		toPgUUID(u.ID), optUUID(u.OfficeID), u.Name, u.Email, string(u.Role), passwordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrEmailTaken
		}
		slog.ErrorContext(ctx, "CreateUser failed", "err", err)
		return models.User{}, err
	}
	return u, nil
}

func (p *pgStore) GetUserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var (
		u    models.User
		hash string
		oid  pgtype.UUID
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id, office_id, name, email, role, password_hash, created_at
		 FROM users WHERE email = lower($1)`,
		email,
	).Scan(&u.ID, &oid, &u.Name, &u.Email, &u.Role, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, "", models.ErrUserNotFound
		}
		return models.User{}, "", err
	}
	u.OfficeID = fromOptUUID(oid)
	return u, hash, nil
}

func (p *pgStore) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var (
		u   models.User
		oid pgtype.UUID
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id, office_id, name, email, role, created_at FROM users WHERE id = $1`,
		toPgUUID(id),
	).Scan(&u.ID, &oid, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	u.OfficeID = fromOptUUID(oid)
	return u, nil
}

func (p *pgStore) ListUsers(ctx context.Context, officeID uuid.UUID) ([]models.User, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, office_id, name, email, role, created_at
		 FROM users WHERE office_id = $1 ORDER BY created_at, id`,
		toPgUUID(officeID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.User{}
	for rows.Next() {
		var (
			u   models.User
			oid pgtype.UUID
		)
		if err := rows.Scan(&u.ID, &oid, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.OfficeID = fromOptUUID(oid)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (p *pgStore) UpdateUserRole(ctx context.Context, officeID, userID uuid.UUID, role models.Role) (models.User, error) {
	slog.DebugContext(ctx, "UpdateUserRole", "office_id", officeID.String(), "user_id", userID.String(), "role", string(role))
	var (
		u   models.User
		oid pgtype.UUID
	)
	err := p.pool.QueryRow(ctx,
		`UPDATE users SET role = $3 WHERE id = $2 AND office_id = $1
		 RETURNING id, office_id, name, email, role, created_at`,
		toPgUUID(officeID), toPgUUID(userID), string(role),
	).Scan(&u.ID, &oid, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return models.User{}, notFoundIfNoRows(err)
	}
	u.OfficeID = fromOptUUID(oid)
	return u, nil
}

func (p *pgStore) DeleteUser(ctx context.Context, officeID, userID uuid.UUID) error {
	slog.DebugContext(ctx, "DeleteUser", "office_id", officeID.String(), "user_id", userID.String())
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Assignee is a weak reference: clear it, keep the tasks.
	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET assignee_id = NULL WHERE office_id = $1 AND assignee_id = $2`,
		toPgUUID(officeID), toPgUUID(userID),
	); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM users WHERE id = $2 AND office_id = $1`,
		toPgUUID(officeID), toPgUUID(userID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return tx.Commit(ctx)
}

// ---------------- pgtype helpers ----------------

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func optUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func fromOptUUID(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func optTime(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func fromOptTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}

func optText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func optInt(i *int) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}
}
