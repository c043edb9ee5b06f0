package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/taskforge/user-service/internal/domain/entity"
	"github.com/taskforge/user-service/internal/domain/event"
	repo "github.com/taskforge/user-service/internal/domain/repository"
)

// Service orchestrates user mutations: it is the only component that
// spans the persist/announce boundary. Each operation runs on the
// caller's goroutine; persist always precedes publish, and the cache
// entry for a mutated aggregate is invalidated on every successful
// persist regardless of publish outcome.
type Service struct {
	Repo      repo.UserRepository
	Outbox    repo.OutboxRepository
	Publisher EventPublisher
	Cache     UserCache
	Encoder   CredentialEncoder
	Logger    *logrus.Logger
}

func NewService(r repo.UserRepository, outbox repo.OutboxRepository, pub EventPublisher, cache UserCache, enc CredentialEncoder, logger *logrus.Logger) *Service {
	return &Service{
		Repo:      r,
		Outbox:    outbox,
		Publisher: pub,
		Cache:     cache,
		Encoder:   enc,
		Logger:    logger,
	}
}

type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type UpdateUserInput struct {
	FirstName string
	LastName  string
}

// CreateUser registers a new user. The ExistsByEmail pre-check gives a
// friendly early failure; the storage unique constraint is the actual
// guard under concurrency, and its rejection surfaces the same way.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*UserView, error) {
	s.Logger.WithField("email", in.Email).Info("creating user")

	taken, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
	}

	stored, err := s.Encoder.Encode(in.Password)
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}

	u := entity.NewUser(in.Email, in.FirstName, in.LastName, stored, []entity.Role{entity.RoleUser})
	if err := s.Repo.Save(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.publishDrained(ctx, u.DrainEvents())

	s.Logger.WithField("user_id", u.ID).Info("user created")
	return NewUserView(u), nil
}

// GetUser is a read-through lookup: a warm cache entry is served without
// consulting the repository, so it can be stale relative to concurrent
// writers until the next invalidation.
func (s *Service) GetUser(ctx context.Context, id string) (*UserView, error) {
	if v, ok := s.Cache.Get(ctx, id); ok {
		return v, nil
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	v := NewUserView(u)
	s.Cache.Set(ctx, id, v)
	return v, nil
}

// GetUserByEmail bypasses the cache; there is no per-email cache key.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*UserView, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return NewUserView(u), nil
}

func (s *Service) ListUsers(ctx context.Context, req repo.PageRequest) (*UserPage, error) {
	page, err := s.Repo.FindPage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return NewUserPage(page), nil
}

// UpdateUser replaces the profile fields. No diffing: identical values
// still persist and still announce an updated event.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*UserView, error) {
	s.Logger.WithField("user_id", id).Info("updating user")

	u, err := s.loadForMutation(ctx, id)
	if err != nil {
		return nil, err
	}
	u.UpdateProfile(in.FirstName, in.LastName)
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.invalidate(ctx, id)
	s.publishDrained(ctx, u.DrainEvents())

	return NewUserView(u), nil
}

// DeleteUser is a soft delete: the aggregate is deactivated and kept.
// The caller is expected not to delete an already disabled user; a
// second call would stage a second deleted event.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.Logger.WithField("user_id", id).Info("deactivating user")

	u, err := s.loadForMutation(ctx, id)
	if err != nil {
		return err
	}
	u.Deactivate()
	if err := s.Repo.Save(ctx, u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.invalidate(ctx, id)
	s.publishDrained(ctx, u.DrainEvents())

	return nil
}

func (s *Service) loadForMutation(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// invalidate evicts the cached projection after a successful persist.
// A stale entry is a correctness bug, so failures are logged loudly, but
// the mutation itself has already committed and is reported as success.
func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.Cache.Delete(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("cache invalidation failed")
	}
}

// publishDrained is the synchronous fast path. The events are already
// durable in the outbox (written in Save's transaction), so a transport
// failure here is not surfaced to the caller: delivery falls back to the
// relay. The loop stops at the first failure to keep the aggregate's
// staging order intact — the relay redelivers oldest-first.
func (s *Service) publishDrained(ctx context.Context, evs []event.Event) {
	published := make([]string, 0, len(evs))
	for _, ev := range evs {
		if err := s.Publisher.Publish(ctx, ev); err != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"event_id":   ev.ID,
				"event_type": ev.Type,
			}).Warn("fast-path publish failed, deferring to outbox relay")
			break
		}
		published = append(published, ev.ID)
	}
	if len(published) == 0 {
		return
	}
	if err := s.Outbox.MarkPublished(ctx, published); err != nil {
		// The relay may redeliver these events; delivery is at-least-once.
		s.Logger.WithError(err).Warn("mark published failed")
	}
}
