package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhub/internal/core/auth"
	"taskhub/internal/domain"
	"taskhub/internal/repo"
	"taskhub/pkg/utils"
)

type env struct {
	db       *gorm.DB
	users    *repo.UserRepo
	projects *repo.ProjectRepo
	tasks    *repo.TaskRepo

	auth       *AuthService
	userSvc    *UserService
	projectSvc *ProjectService
	taskSvc    *TaskService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	// One named in-memory DB per test; MaxOpenConns(1) keeps every session on
	// the same connection.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Project{},
		&domain.ProjectMember{},
		&domain.Task{},
	))

	users := repo.NewUserRepo(db)
	projects := repo.NewProjectRepo(db)
	tasks := repo.NewTaskRepo(db)
	sums := NewUserSummaries(users, nil, 0)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}

	return &env{
		db:         db,
		users:      users,
		projects:   projects,
		tasks:      tasks,
		auth:       NewAuthService(users, jwter, nil),
		userSvc:    NewUserService(users, sums, nil),
		projectSvc: NewProjectService(projects, users, sums, nil),
		taskSvc:    NewTaskService(tasks, projects, sums, nil),
	}
}

func (e *env) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        strings.ToLower(name) + "@example.com",
		Name:         name,
		PasswordHash: utils.HashPassword("correct horse"),
		Role:         domain.GlobalRoleUser,
		Active:       true,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

// project creates a project owned by owner and adds the extra members.
func (e *env) project(t *testing.T, owner *domain.User, members map[*domain.User]domain.ProjectRole) *ProjectView {
	t.Helper()
	ctx := context.Background()
	pv, err := e.projectSvc.Create(ctx, owner.ID, "Project "+owner.Name, "")
	require.NoError(t, err)
	for u, role := range members {
		pv, err = e.projectSvc.AddMember(ctx, pv.ID, u.ID, role, owner.ID)
		require.NoError(t, err)
	}
	return pv
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "got error: %v", err)
}
