// Package service holds the lifecycle managers. Every mutating operation runs
// the same pipeline: load the aggregate with its membership fresh from the
// store, evaluate the policy decision, apply the mutation, reload the
// read-model. Authorization failures are detected before any write is issued.
package service

import (
	"time"

	"taskhub/internal/domain"
)

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type Paginated[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func paginate[T any](data []T, page, limit int, total int64) *Paginated[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if data == nil {
		data = []T{}
	}
	return &Paginated[T]{
		Data: data,
		Meta: Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}

type UserView struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Role      domain.GlobalRole `json:"role"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func userView(u *domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type MemberView struct {
	ID       string             `json:"id"`
	UserID   string             `json:"userId"`
	Role     domain.ProjectRole `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
	User     domain.UserSummary `json:"user"`
}

type ProjectCounts struct {
	Tasks   int64 `json:"tasks"`
	Members int   `json:"members"`
}

// ProjectView is the project read-model: the aggregate plus owner and member
// display summaries and counts, assembled explicitly from the repositories.
type ProjectView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	OwnerID     string             `json:"ownerId"`
	Owner       domain.UserSummary `json:"owner"`
	Members     []MemberView       `json:"members,omitempty"`
	Counts      ProjectCounts      `json:"counts"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaskView struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	Project     ProjectRef          `json:"project"`
	Assignee    *domain.UserSummary `json:"assignee,omitempty"`
	CreatedBy   *domain.UserSummary `json:"createdBy,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}
