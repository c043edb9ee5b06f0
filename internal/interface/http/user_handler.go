package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/taskforge/user-service/internal/application"
	repo "github.com/taskforge/user-service/internal/domain/repository"
	"github.com/taskforge/user-service/pkg/response"
	"github.com/taskforge/user-service/pkg/validation"
)

// UserService is what the handler needs from the application layer.
type UserService interface {
	CreateUser(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserView, error)
	GetUser(ctx context.Context, id string) (*userapp.UserView, error)
	GetUserByEmail(ctx context.Context, email string) (*userapp.UserView, error)
	ListUsers(ctx context.Context, req repo.PageRequest) (*userapp.UserPage, error)
	UpdateUser(ctx context.Context, id string, in userapp.UpdateUserInput) (*userapp.UserView, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,pwd"`
}

type updateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.CreateUser(c.Request.Context(), userapp.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "email already registered", gin.H{"email": req.Email})
			return
		}
		h.internal(c, err, "create user failed")
		return
	}
	response.Success(c, http.StatusCreated, v, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	v, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", gin.H{"id": id})
			return
		}
		h.internal(c, err, "get user failed")
		return
	}
	response.Success(c, http.StatusOK, v, "user", nil)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Param("email")
	v, err := h.Svc.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", gin.H{"email": email})
			return
		}
		h.internal(c, err, "get user by email failed")
		return
	}
	response.Success(c, http.StatusOK, v, "user", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	req := repo.PageRequest{Page: intQuery(c, "page", 1), Size: intQuery(c, "size", 20)}
	if req.Size > 100 {
		req.Size = 100
	}
	page, err := h.Svc.ListUsers(c.Request.Context(), req)
	if err != nil {
		h.internal(c, err, "list users failed")
		return
	}
	response.Success(c, http.StatusOK, page.Items, "users", gin.H{
		"total": page.Total,
		"page":  page.Page,
		"size":  page.Size,
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.UpdateUser(c.Request.Context(), id, userapp.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", gin.H{"id": id})
			return
		}
		h.internal(c, err, "update user failed")
		return
	}
	response.Success(c, http.StatusOK, v, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", gin.H{"id": id})
			return
		}
		h.internal(c, err, "delete user failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// internal logs the full error for operators and reports generically.
func (h *UserHandler) internal(c *gin.Context, err error, msg string) {
	h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}

func intQuery(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
