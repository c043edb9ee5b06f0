package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/user-service/internal/container"
	handlers "github.com/taskforge/user-service/internal/interface/http"
	"github.com/taskforge/user-service/internal/interface/middleware"
)

// UserModule wires user HTTP handlers into routes under /api/v1.
// Create is rate limited per IP; reads are left unlimited.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	createLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIP())

	users := rg.Group("/users")
	{
		users.POST("", createLimiter, m.Handler.Create)
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.GET("/email/:email", m.Handler.GetByEmail)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
