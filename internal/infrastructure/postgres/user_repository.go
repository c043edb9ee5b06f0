package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/user-service/internal/domain/entity"
	"github.com/taskforge/user-service/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, password_hash, enabled, created_at, updated_at, last_login_at
		FROM users `+where, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Password,
		&u.Enabled, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.rolesFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

// Save upserts the aggregate row, rewrites its role side table, and
// appends the pending events to the outbox — all in one transaction.
// The commit makes the mutation and its announcement durable together.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, first_name, last_name, password_hash, enabled, created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email         = EXCLUDED.email,
			first_name    = EXCLUDED.first_name,
			last_name     = EXCLUDED.last_name,
			password_hash = EXCLUDED.password_hash,
			enabled       = EXCLUDED.enabled,
			updated_at    = EXCLUDED.updated_at,
			last_login_at = EXCLUDED.last_login_at
	`, u.ID, u.Email, u.FirstName, u.LastName, u.Password, u.Enabled, u.CreatedAt, u.UpdatedAt, u.LastLoginAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, u.ID); err != nil {
		return err
	}
	for _, role := range u.Roles {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		`, u.ID, string(role)); err != nil {
			return err
		}
	}

	for _, ev := range u.PendingEvents() {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO outbox_events (id, event_type, aggregate_id, occurred_at, payload)
			VALUES ($1, $2, $3, $4, $5)
		`, ev.ID, string(ev.Type), ev.AggregateID, ev.OccurredAt, payload); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) FindPage(ctx context.Context, req repository.PageRequest) (repository.Page, error) {
	page := repository.Page{Page: req.Page, Size: req.Size}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&page.Total); err != nil {
		return page, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, email, first_name, last_name, password_hash, enabled, created_at, updated_at, last_login_at
		FROM users
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, req.Size, req.Offset())
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Password,
			&u.Enabled, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
			return page, err
		}
		page.Items = append(page.Items, u)
	}
	if err := rows.Err(); err != nil {
		return page, err
	}

	for _, u := range page.Items {
		roles, err := r.rolesFor(ctx, u.ID)
		if err != nil {
			return page, err
		}
		u.Roles = roles
	}
	return page, nil
}

func (r *UserRepository) rolesFor(ctx context.Context, userID string) ([]entity.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []entity.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, entity.Role(role))
	}
	return roles, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
