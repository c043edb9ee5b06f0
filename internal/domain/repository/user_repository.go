package repository

import (
	"context"
	"errors"

	"github.com/taskforge/user-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by point lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by Save when the email unique
	// constraint rejects the write. This is the backstop against the
	// pre-check race: two concurrent creates can both pass
	// ExistsByEmail, but only one Save succeeds.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// PageRequest selects one page of a scan. Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// Page is one page of aggregates plus the total row count.
type Page struct {
	Items []*entity.User
	Total int64
	Page  int
	Size  int
}

// UserRepository is the durable storage port for user aggregates.
// Save has upsert semantics (insert on a new identity, full overwrite
// otherwise) and persists the aggregate's pending events into the outbox
// within the same transaction, so a committed mutation can never lose its
// announcement.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	FindPage(ctx context.Context, req PageRequest) (Page, error)
}
