package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/service"
	"taskhub/internal/transport/http/httpez"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Auth mounts first so /auth/* never collides with a later wildcard.
func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	ez := httpez.New(public)

	type registerIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Name     string `json:"name"     binding:"required,max=64"`
		Password string `json:"password" binding:"required,min=8"`
	}
	httpez.RegisterAction(ez, httpez.Action[registerIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (*service.AuthResult, error) {
			return h.svc.Register(c, in.Email, in.Name, in.Password)
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[loginIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.AuthResult, error) {
			return h.svc.Login(c, in.Email, in.Password)
		},
	})

	ezAuth := httpez.New(authed)
	httpez.RegisterAction(ezAuth, httpez.Action[struct{}, *service.UserView]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.UserView, error) {
			return h.svc.Me(c, c.GetString("userId"))
		},
	})
}
