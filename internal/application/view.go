package application

import (
	"time"

	"github.com/taskforge/user-service/internal/domain/entity"
	"github.com/taskforge/user-service/internal/domain/repository"
)

// UserView is the projection returned to callers and stored in the cache.
type UserView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Roles       []string   `json:"roles"`
	Enabled     bool       `json:"enabled"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewUserView(u *entity.User) *UserView {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return &UserView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Roles:       roles,
		Enabled:     u.Enabled,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserPage is one page of projections.
type UserPage struct {
	Items []*UserView `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

func NewUserPage(p repository.Page) *UserPage {
	items := make([]*UserView, 0, len(p.Items))
	for _, u := range p.Items {
		items = append(items, NewUserView(u))
	}
	return &UserPage{Items: items, Total: p.Total, Page: p.Page, Size: p.Size}
}
