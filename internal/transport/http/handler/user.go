package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/domain"
	"taskhub/internal/service"
	"taskhub/internal/transport/http/httpez"
)

// UserHandler serves both sides: profile read/update on the api engine,
// listing and deactivation on the admin engine.
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

type userPatchIn struct {
	Email    *string            `json:"email"    binding:"omitempty,email"`
	Name     *string            `json:"name"     binding:"omitempty,max=64"`
	Password *string            `json:"password" binding:"omitempty,min=8"`
	Role     *domain.GlobalRole `json:"role"`
}

func (in *userPatchIn) patch() domain.UserPatch {
	return domain.UserPatch{Email: in.Email, Name: in.Name, Password: in.Password, Role: in.Role}
}

func (h *UserHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed)

	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.UserView]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.UserView, error) {
			return h.svc.Get(c, c.Param("id"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[userPatchIn, *service.UserView]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *userPatchIn) (*service.UserView, error) {
			actorRole := domain.GlobalRole(c.GetString("role"))
			return h.svc.Update(c, c.Param("id"), in.patch(), c.GetString("userId"), actorRole)
		},
	})
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64              `json:"total"`
		Items []service.UserView `json:"items"`
	}
	httpez.RegisterAction(ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			items, total, err := h.svc.List(c, in.Offset, in.Limit)
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[userPatchIn, *service.UserView]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *userPatchIn) (*service.UserView, error) {
			// The admin group is role-gated by middleware already.
			return h.svc.Update(c, c.Param("id"), in.patch(), c.GetString("userId"), domain.GlobalRoleAdmin)
		},
	})

	// Deactivation is the soft delete: terminal, the row stays for audit.
	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.svc.Remove(c, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}
