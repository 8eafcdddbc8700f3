package domain

import (
	"context"
	"time"
)

// GlobalRole is the platform-wide privilege, distinct from a per-project role.
type GlobalRole string

const (
	GlobalRoleUser  GlobalRole = "USER"
	GlobalRoleAdmin GlobalRole = "ADMIN"
)

func (r GlobalRole) Valid() bool {
	return r == GlobalRoleUser || r == GlobalRoleAdmin
}

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string     `gorm:"size:64;not null" json:"name"`
	PasswordHash string     `gorm:"size:191;not null" json:"-"`
	Role         GlobalRole `gorm:"size:16;not null;default:USER" json:"role"`
	Active       bool       `gorm:"not null;default:true" json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserSummary is the public slice of a user embedded in read-models.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserPatch carries optional field updates; nil means leave unchanged.
type UserPatch struct {
	Email    *string
	Name     *string
	Password *string
	Role     *GlobalRole
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// FindByID returns (nil, nil) when the user is missing or inactive.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) error
}
