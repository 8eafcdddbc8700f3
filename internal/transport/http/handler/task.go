package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/internal/domain"
	"taskhub/internal/service"
	"taskhub/internal/transport/http/httpez"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler { return &TaskHandler{svc: svc} }

func (h *TaskHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed)

	type createIn struct {
		Title       string               `json:"title"       binding:"required,max=255"`
		Description string               `json:"description" binding:"omitempty,max=2048"`
		ProjectID   string               `json:"projectId"   binding:"required"`
		AssigneeID  *string              `json:"assigneeId"`
		Priority    *domain.TaskPriority `json:"priority"`
		DueDate     *time.Time           `json:"dueDate"`
	}
	httpez.RegisterAction(ez, httpez.Action[createIn, *service.TaskView]{
		Method: http.MethodPost,
		Path:   "/tasks",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *createIn) (*service.TaskView, error) {
			return h.svc.Create(c, service.CreateTaskInput{
				Title:       in.Title,
				Description: in.Description,
				ProjectID:   in.ProjectID,
				AssigneeID:  in.AssigneeID,
				Priority:    in.Priority,
				DueDate:     in.DueDate,
			}, c.GetString("userId"))
		},
	})

	// GET /tasks is "my tasks": assignee or creator, never a project dump.
	type listQ struct {
		Status     *domain.TaskStatus   `form:"status"`
		Priority   *domain.TaskPriority `form:"priority"`
		AssigneeID string               `form:"assigneeId"`
		ProjectID  string               `form:"projectId"`
		Page       int                  `form:"page,default=1"`
		Limit      int                  `form:"limit,default=10"`
	}
	httpez.RegisterAction(ez, httpez.Action[listQ, *service.Paginated[service.TaskView]]{
		Method: http.MethodGet,
		Path:   "/tasks",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) (*service.Paginated[service.TaskView], error) {
			f := domain.TaskFilter{
				Status:     in.Status,
				Priority:   in.Priority,
				AssigneeID: in.AssigneeID,
				ProjectID:  in.ProjectID,
				Page:       in.Page,
				Limit:      in.Limit,
			}
			return h.svc.ListMine(c, c.GetString("userId"), f)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []service.TaskView]{
		Method: http.MethodGet,
		Path:   "/projects/:id/tasks",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.TaskView, error) {
			return h.svc.ListByProject(c, c.Param("id"), c.GetString("userId"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *service.TaskView]{
		Method: http.MethodGet,
		Path:   "/tasks/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.TaskView, error) {
			return h.svc.Get(c, c.Param("id"), c.GetString("userId"))
		},
	})

	type updateIn struct {
		Title       *string              `json:"title"       binding:"omitempty,max=255"`
		Description *string              `json:"description" binding:"omitempty,max=2048"`
		Status      *domain.TaskStatus   `json:"status"`
		Priority    *domain.TaskPriority `json:"priority"`
		DueDate     *time.Time           `json:"dueDate"`
	}
	httpez.RegisterAction(ez, httpez.Action[updateIn, *service.TaskView]{
		Method: http.MethodPatch,
		Path:   "/tasks/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (*service.TaskView, error) {
			patch := domain.TaskPatch{
				Title:       in.Title,
				Description: in.Description,
				Status:      in.Status,
				Priority:    in.Priority,
				DueDate:     in.DueDate,
			}
			return h.svc.Update(c, c.Param("id"), patch, c.GetString("userId"))
		},
	})

	type statusIn struct {
		Status domain.TaskStatus `json:"status" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[statusIn, *service.TaskView]{
		Method: http.MethodPatch,
		Path:   "/tasks/:id/status",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *statusIn) (*service.TaskView, error) {
			return h.svc.UpdateStatus(c, c.Param("id"), in.Status, c.GetString("userId"))
		},
	})

	// Assign is manager-only; a null/absent assigneeId unassigns.
	type assignIn struct {
		AssigneeID *string `json:"assigneeId"`
	}
	httpez.RegisterAction(ez, httpez.Action[assignIn, *service.TaskView]{
		Method: http.MethodPost,
		Path:   "/tasks/:id/assign",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *assignIn) (*service.TaskView, error) {
			return h.svc.Assign(c, c.Param("id"), in.AssigneeID, c.GetString("userId"))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/tasks/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.svc.Remove(c, c.Param("id"), c.GetString("userId")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}
