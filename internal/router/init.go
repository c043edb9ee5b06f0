package router

import (
	userapp "github.com/taskforge/user-service/internal/application"
	"github.com/taskforge/user-service/internal/container"
	repouser "github.com/taskforge/user-service/internal/domain/repository"
	pginfra "github.com/taskforge/user-service/internal/infrastructure/postgres"
	"github.com/taskforge/user-service/internal/infrastructure/rediscache"
	handlers "github.com/taskforge/user-service/internal/interface/http"
	"github.com/taskforge/user-service/internal/router/modules"
	"github.com/taskforge/user-service/pkg/helpers"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	outbox := pginfra.NewOutboxRepository(container.GetPGPool())
	cache := rediscache.NewUserCache(container.GetRedis(), container.GetConfig().CacheTTL, container.GetLogger())

	service := userapp.NewService(
		repo,
		outbox,
		container.GetRabbitPub(),
		cache,
		helpers.BcryptEncoder{},
		container.GetLogger(),
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{Repo: repo, Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler))
}
