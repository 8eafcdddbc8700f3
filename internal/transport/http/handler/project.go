package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/domain"
	"taskhub/internal/service"
	"taskhub/internal/transport/http/httpez"
)

// ProjectHandler exposes the project lifecycle and the membership ledger
// mutations. Every route is behind AuthJWT; per-project authorization happens
// in the service against the fresh membership ledger, never here.
type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed)

	type createIn struct {
		Name        string `json:"name"        binding:"required,max=255"`
		Description string `json:"description" binding:"omitempty,max=2048"`
	}
	httpez.RegisterAction(ez, httpez.Action[createIn, *service.ProjectView]{
		Method: http.MethodPost,
		Path:   "/projects",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *createIn) (*service.ProjectView, error) {
			return h.svc.Create(c, c.GetString("userId"), in.Name, in.Description)
		},
	})

	type listQ struct {
		Search string `form:"search"`
		Page   int    `form:"page,default=1"`
		Limit  int    `form:"limit,default=10"`
	}
	httpez.RegisterAction(ez, httpez.Action[listQ, *service.Paginated[service.ProjectView]]{
		Method: http.MethodGet,
		Path:   "/projects",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (*service.Paginated[service.ProjectView], error) {
			f := domain.ProjectFilter{Search: in.Search, Page: in.Page, Limit: in.Limit}
			return h.svc.List(c, c.GetString("userId"), f)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.ProjectView]{
		Method: http.MethodGet,
		Path:   "/projects/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ProjectView, error) {
			return h.svc.Get(c, c.Param("id"), c.GetString("userId"))
		},
	})

	type updateIn struct {
		Name        *string `json:"name"        binding:"omitempty,max=255"`
		Description *string `json:"description" binding:"omitempty,max=2048"`
	}
	httpez.RegisterAction(ez, httpez.Action[updateIn, *service.ProjectView]{
		Method: http.MethodPatch,
		Path:   "/projects/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (*service.ProjectView, error) {
			patch := domain.ProjectPatch{Name: in.Name, Description: in.Description}
			return h.svc.Update(c, c.Param("id"), patch, c.GetString("userId"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/projects/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.svc.Remove(c, c.Param("id"), c.GetString("userId")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	// --- membership ledger ---

	type addMemberIn struct {
		UserID string             `json:"userId" binding:"required"`
		Role   domain.ProjectRole `json:"role"   binding:"omitempty"`
	}
	httpez.RegisterAction(ez, httpez.Action[addMemberIn, *service.ProjectView]{
		Method: http.MethodPost,
		Path:   "/projects/:id/members",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *addMemberIn) (*service.ProjectView, error) {
			return h.svc.AddMember(c, c.Param("id"), in.UserID, in.Role, c.GetString("userId"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.ProjectView]{
		Method: http.MethodDelete,
		Path:   "/projects/:id/members/:userId",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ProjectView, error) {
			return h.svc.RemoveMember(c, c.Param("id"), c.Param("userId"), c.GetString("userId"))
		},
	})

	type roleIn struct {
		Role domain.ProjectRole `json:"role" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[roleIn, *service.ProjectView]{
		Method: http.MethodPatch,
		Path:   "/projects/:id/members/:userId",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *roleIn) (*service.ProjectView, error) {
			return h.svc.UpdateMemberRole(c, c.Param("id"), c.Param("userId"), in.Role, c.GetString("userId"))
		},
	})
}
