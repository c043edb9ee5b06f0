package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/taskforge/user-service/config"
	"github.com/taskforge/user-service/internal/domain/entity"
	"github.com/taskforge/user-service/internal/domain/repository"
	pginfra "github.com/taskforge/user-service/internal/infrastructure/postgres"
	"github.com/taskforge/user-service/pkg/helpers"
)

// Seeds a local admin account through the domain path, so the created
// event lands in the outbox like any other mutation.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)

	email := "admin@example.com"
	password := "password123"

	if taken, err := repo.ExistsByEmail(ctx, email); err != nil {
		log.Fatalf("failed to check email: %v", err)
	} else if taken {
		fmt.Printf("user %s already seeded\n", email)
		return
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := entity.NewUser(email, "Admin", "User", hash, []entity.Role{entity.RoleAdmin, entity.RoleUser})
	if err := repo.Save(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fmt.Printf("user %s already seeded\n", email)
			return
		}
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
}
