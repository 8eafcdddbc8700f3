package domain

import (
	"context"
	"time"
)

// ProjectRole is the authorization level within a single project.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleMember ProjectRole = "MEMBER"
)

func (r ProjectRole) Valid() bool {
	return r == ProjectRoleOwner || r == ProjectRoleAdmin || r == ProjectRoleMember
}

// Manager reports whether the role may mutate the project and its tasks.
func (r ProjectRole) Manager() bool {
	return r == ProjectRoleOwner || r == ProjectRoleAdmin
}

type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	OwnerID     string    `gorm:"size:36;not null;index" json:"ownerId"`
	Active      bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string { return "projects" }

// ProjectMember is one (user, role) row of a project's membership.
// (project_id, user_id) is unique; the row with role OWNER mirrors Project.OwnerID.
type ProjectMember struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string      `gorm:"size:36;not null;uniqueIndex:idx_project_user" json:"projectId"`
	UserID    string      `gorm:"size:36;not null;uniqueIndex:idx_project_user" json:"userId"`
	Role      ProjectRole `gorm:"size:16;not null" json:"role"`
	JoinedAt  time.Time   `gorm:"autoCreateTime" json:"joinedAt"`
}

func (ProjectMember) TableName() string { return "project_members" }

// ProjectPatch carries optional field updates; nil means leave unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
}

type ProjectFilter struct {
	Search string
	Page   int
	Limit  int
}

type ProjectRepository interface {
	// CreateWithOwner inserts the project and its OWNER member row in one transaction.
	CreateWithOwner(ctx context.Context, p *Project, owner *ProjectMember) error
	// FindByID loads an active project with its members; (nil, nil) when missing/inactive.
	FindByID(ctx context.Context, id string) (*Project, error)
	// ListForUser returns active projects having userID as a member, newest first.
	ListForUser(ctx context.Context, userID string, f ProjectFilter) ([]Project, int64, error)
	Update(ctx context.Context, p *Project) error
	SoftDelete(ctx context.Context, id string) error

	// AddMember surfaces KindAlreadyMember when the unique (project,user) index rejects the row.
	AddMember(ctx context.Context, m *ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	UpdateMemberRole(ctx context.Context, projectID, userID string, role ProjectRole) error

	CountTasks(ctx context.Context, projectID string) (int64, error)
}
