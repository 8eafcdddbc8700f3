package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskhub/internal/core/auth"
	"taskhub/internal/domain"
	"taskhub/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, jwter: jwter, log: log}
}

type AuthResult struct {
	AccessToken string   `json:"accessToken"`
	User        UserView `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return nil, domain.NewError(domain.KindValidation, "email, name and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.KindEmailInUse, "email already registered")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: utils.HashPassword(password),
		Role:         domain.GlobalRoleUser,
		Active:       true,
	}
	// A concurrent register for the same email loses at the unique index
	// and comes back as KindEmailInUse from the repo.
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return s.result(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.NewError(domain.KindUnauthorized, "invalid credentials")
	}
	return s.result(u)
}

// Me resolves the acting user from a verified token's uid.
func (s *AuthService) Me(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}
	v := userView(u)
	return &v, nil
}

func (s *AuthService) result(u *domain.User) (*AuthResult, error) {
	tok, err := s.jwter.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, domain.WrapError(domain.KindTransient, "issue token failed", err)
	}
	return &AuthResult{AccessToken: tok, User: userView(u)}, nil
}
