package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskhub/internal/domain"
	"taskhub/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	sums  UserSummaries
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, sums UserSummaries, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, sums: sums, log: log}
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]UserView, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	return out, total, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*UserView, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}
	v := userView(u)
	return &v, nil
}

// Update lets a user edit themselves; a global ADMIN may edit anyone and is
// the only one who may change the global role.
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch, actorID string, actorRole domain.GlobalRole) (*UserView, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}

	isAdmin := actorRole == domain.GlobalRoleAdmin
	if actorID != id && !isAdmin {
		return nil, domain.NewError(domain.KindInsufficientRole, "you can only update your own information")
	}

	if patch.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*patch.Email))
		if email == "" {
			return nil, domain.NewError(domain.KindValidation, "email must not be empty")
		}
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != u.ID {
				return nil, domain.NewError(domain.KindEmailInUse, "email already registered")
			}
			u.Email = email
		}
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, domain.NewError(domain.KindValidation, "name must not be empty")
		}
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, domain.NewError(domain.KindValidation, "password must not be empty")
		}
		u.PasswordHash = utils.HashPassword(*patch.Password)
	}
	if patch.Role != nil {
		if !isAdmin {
			return nil, domain.NewError(domain.KindInsufficientRole, "only an admin can change roles")
		}
		if !patch.Role.Valid() {
			return nil, domain.NewError(domain.KindValidation, "invalid role")
		}
		u.Role = *patch.Role
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.sums.Invalidate(ctx, u.ID)
	v := userView(u)
	return &v, nil
}

// Remove soft-deletes a user; admin-gated at the boundary. Terminal.
func (s *UserService) Remove(ctx context.Context, id string) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NewError(domain.KindNotFound, "user not found")
	}
	if err := s.users.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.sums.Invalidate(ctx, id)
	s.log.Info("user deactivated", zap.String("user_id", id))
	return nil
}
