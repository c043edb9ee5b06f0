package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/taskforge/user-service/internal/application"
	repo "github.com/taskforge/user-service/internal/domain/repository"
	"github.com/taskforge/user-service/pkg/validation"
)

// ---- mock service ----

type mockUserService struct {
	createFn func(userapp.CreateUserInput) (*userapp.UserView, error)
	getFn    func(string) (*userapp.UserView, error)
	byEmail  func(string) (*userapp.UserView, error)
	listFn   func(repo.PageRequest) (*userapp.UserPage, error)
	updateFn func(string, userapp.UpdateUserInput) (*userapp.UserView, error)
	deleteFn func(string) error
}

func (m *mockUserService) CreateUser(_ context.Context, in userapp.CreateUserInput) (*userapp.UserView, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) GetUser(_ context.Context, id string) (*userapp.UserView, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*userapp.UserView, error) {
	if m.byEmail != nil {
		return m.byEmail(email)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) ListUsers(_ context.Context, req repo.PageRequest) (*userapp.UserPage, error) {
	if m.listFn != nil {
		return m.listFn(req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) UpdateUser(_ context.Context, id string, in userapp.UpdateUserInput) (*userapp.UserView, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) DeleteUser(_ context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return fmt.Errorf("not configured")
}

// ---- helpers ----

func newTestRouter(svc UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	h := NewUserHandler(svc, logger)

	r := gin.New()
	users := r.Group("/api/v1/users")
	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/:id", h.Get)
	users.GET("/email/:email", h.GetByEmail)
	users.PUT("/:id", h.Update)
	users.DELETE("/:id", h.Delete)
	return r
}

func doRequest(r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func annView() *userapp.UserView {
	return &userapp.UserView{
		ID:        "11111111-1111-1111-1111-111111111111",
		Email:     "a@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		FullName:  "Ann Lee",
		Roles:     []string{"USER"},
		Enabled:   true,
	}
}

// ---- tests ----

func TestCreateReturns201(t *testing.T) {
	svc := &mockUserService{
		createFn: func(in userapp.CreateUserInput) (*userapp.UserView, error) {
			if in.Email != "a@example.com" || in.FirstName != "Ann" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return annView(), nil
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodPost, "/api/v1/users", gin.H{
		"email":      "a@example.com",
		"first_name": "Ann",
		"last_name":  "Lee",
		"password":   "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data userapp.UserView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.FullName != "Ann Lee" || !resp.Data.Enabled {
		t.Fatalf("unexpected projection: %+v", resp.Data)
	}
}

func TestCreateDuplicateReturns409(t *testing.T) {
	svc := &mockUserService{
		createFn: func(in userapp.CreateUserInput) (*userapp.UserView, error) {
			return nil, fmt.Errorf("%w: %s", userapp.ErrEmailTaken, in.Email)
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodPost, "/api/v1/users", gin.H{
		"email":      "a@example.com",
		"first_name": "Ann",
		"last_name":  "Lee",
		"password":   "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateInvalidPayloadReturns400(t *testing.T) {
	called := false
	svc := &mockUserService{
		createFn: func(userapp.CreateUserInput) (*userapp.UserView, error) {
			called = true
			return annView(), nil
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodPost, "/api/v1/users", gin.H{
		"email":      "not-an-email",
		"first_name": "Ann",
		"last_name":  "Lee",
		"password":   "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if called {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestGetReturns200(t *testing.T) {
	svc := &mockUserService{
		getFn: func(id string) (*userapp.UserView, error) { return annView(), nil },
	}
	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/v1/users/11111111-1111-1111-1111-111111111111", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetMissingReturns404(t *testing.T) {
	svc := &mockUserService{
		getFn: func(id string) (*userapp.UserView, error) {
			return nil, fmt.Errorf("%w: %s", userapp.ErrUserNotFound, id)
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/v1/users/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetByEmailMissingReturns404(t *testing.T) {
	svc := &mockUserService{
		byEmail: func(email string) (*userapp.UserView, error) {
			return nil, fmt.Errorf("%w: %s", userapp.ErrUserNotFound, email)
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/v1/users/email/nobody@example.com", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListPassesPagination(t *testing.T) {
	var got repo.PageRequest
	svc := &mockUserService{
		listFn: func(req repo.PageRequest) (*userapp.UserPage, error) {
			got = req
			return &userapp.UserPage{Items: []*userapp.UserView{annView()}, Total: 1, Page: req.Page, Size: req.Size}, nil
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodGet, "/api/v1/users?page=2&size=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.Page != 2 || got.Size != 5 {
		t.Fatalf("pagination not passed through: %+v", got)
	}
}

func TestUpdateMissingReturns404(t *testing.T) {
	svc := &mockUserService{
		updateFn: func(id string, _ userapp.UpdateUserInput) (*userapp.UserView, error) {
			return nil, fmt.Errorf("%w: %s", userapp.ErrUserNotFound, id)
		},
	}
	w := doRequest(newTestRouter(svc), http.MethodPut, "/api/v1/users/unknown", gin.H{
		"first_name": "Anna",
		"last_name":  "Li",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteReturns204(t *testing.T) {
	svc := &mockUserService{
		deleteFn: func(id string) error { return nil },
	}
	w := doRequest(newTestRouter(svc), http.MethodDelete, "/api/v1/users/11111111-1111-1111-1111-111111111111", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
