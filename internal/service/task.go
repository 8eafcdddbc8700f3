package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskhub/internal/domain"
	"taskhub/internal/domain/policy"
	"taskhub/pkg/utils"
)

// TaskService is the task lifecycle manager. Every operation resolves the
// owning project's membership first; a task whose project is missing or
// inactive is NotFound even when the task row itself is active.
type TaskService struct {
	tasks    domain.TaskRepository
	projects domain.ProjectRepository
	sums     UserSummaries
	log      *zap.Logger
}

func NewTaskService(tasks domain.TaskRepository, projects domain.ProjectRepository, sums UserSummaries, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{tasks: tasks, projects: projects, sums: sums, log: log}
}

type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   string
	AssigneeID  *string
	Priority    *domain.TaskPriority
	DueDate     *time.Time
}

// load resolves task + parent membership, applying the transitive
// active-project rule.
func (s *TaskService) load(ctx context.Context, id string) (*domain.Task, domain.Membership, *domain.Project, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Membership{}, nil, err
	}
	if t == nil {
		return nil, domain.Membership{}, nil, domain.NewError(domain.KindNotFound, "task not found")
	}
	p, err := s.projects.FindByID(ctx, t.ProjectID)
	if err != nil {
		return nil, domain.Membership{}, nil, err
	}
	if p == nil {
		return nil, domain.Membership{}, nil, domain.NewError(domain.KindNotFound, "project not found")
	}
	return t, domain.NewMembership(p.Members), p, nil
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, actorID string) (*TaskView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewError(domain.KindValidation, "task title is required")
	}
	priority := domain.TaskPriorityMedium
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, domain.NewError(domain.KindValidation, "invalid priority")
		}
		priority = *in.Priority
	}

	p, err := s.projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.KindNotFound, "project not found")
	}
	ms := domain.NewMembership(p.Members)

	if err := policy.CanTask(policy.TaskCreate, nil, ms, actorID); err != nil {
		return nil, err
	}
	if in.AssigneeID != nil {
		if err := policy.CheckAssignee(ms, *in.AssigneeID); err != nil {
			return nil, err
		}
	}

	creator := actorID
	t := &domain.Task{
		ID:          utils.NewID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.TaskStatusTodo,
		Priority:    priority,
		ProjectID:   p.ID,
		AssigneeID:  in.AssigneeID,
		CreatedByID: &creator,
		DueDate:     in.DueDate,
		Active:      true,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("task created", zap.String("task_id", t.ID), zap.String("project_id", p.ID))
	return s.view(ctx, t, p)
}

func (s *TaskService) Get(ctx context.Context, id, actorID string) (*TaskView, error) {
	t, ms, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanTask(policy.TaskView, t, ms, actorID); err != nil {
		return nil, err
	}
	return s.view(ctx, t, p)
}

// ListMine returns tasks where the user is assignee or creator.
func (s *TaskService) ListMine(ctx context.Context, userID string, f domain.TaskFilter) (*Paginated[TaskView], error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, domain.NewError(domain.KindValidation, "invalid status")
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return nil, domain.NewError(domain.KindValidation, "invalid priority")
	}
	tasks, total, err := s.tasks.ListForUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return paginate(views, f.Page, f.Limit, total), nil
}

// ListByProject is member-gated like every other in-project read.
func (s *TaskService) ListByProject(ctx context.Context, projectID, actorID string) ([]TaskView, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.KindNotFound, "project not found")
	}
	if err := policy.CanProject(policy.ProjectView, domain.NewMembership(p.Members), actorID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, tasks)
}

func (s *TaskService) Update(ctx context.Context, id string, patch domain.TaskPatch, actorID string) (*TaskView, error) {
	t, ms, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanTask(policy.TaskUpdate, t, ms, actorID); err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, t, p, ms, patch)
}

// UpdateStatus is a specialization of Update: its own gate shares the update
// rule, then it delegates to the generic patch path.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, actorID string) (*TaskView, error) {
	if !status.Valid() {
		return nil, domain.NewError(domain.KindValidation, "invalid status")
	}
	t, ms, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanTask(policy.TaskUpdateStatus, t, ms, actorID); err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, t, p, ms, domain.TaskPatch{Status: &status})
}

// Assign is manager-only; it funnels through the same patch path so the
// assignee-membership check cannot be bypassed. A nil assignee unassigns.
func (s *TaskService) Assign(ctx context.Context, id string, assigneeID *string, actorID string) (*TaskView, error) {
	t, ms, p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanTask(policy.TaskAssign, t, ms, actorID); err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, t, p, ms, domain.TaskPatch{Assignee: &assigneeID})
}

func (s *TaskService) Remove(ctx context.Context, id, actorID string) error {
	t, ms, _, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanTask(policy.TaskDelete, t, ms, actorID); err != nil {
		return err
	}
	if err := s.tasks.SoftDelete(ctx, t.ID); err != nil {
		return err
	}
	s.log.Info("task deleted", zap.String("task_id", t.ID), zap.String("actor_id", actorID))
	return nil
}

// applyPatch is the single mutation path for update/updateStatus/assign.
// Field-level checks live here so the specializations cannot skip them.
func (s *TaskService) applyPatch(ctx context.Context, t *domain.Task, p *domain.Project, ms domain.Membership, patch domain.TaskPatch) (*TaskView, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.NewError(domain.KindValidation, "task title is required")
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		// No transition graph: any declared status may follow any other.
		if !patch.Status.Valid() {
			return nil, domain.NewError(domain.KindValidation, "invalid status")
		}
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, domain.NewError(domain.KindValidation, "invalid priority")
		}
		t.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		if next := *patch.Assignee; next != nil {
			if err := policy.CheckAssignee(ms, *next); err != nil {
				return nil, err
			}
			t.AssigneeID = next
		} else {
			t.AssigneeID = nil
		}
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.view(ctx, t, p)
}

func (s *TaskService) view(ctx context.Context, t *domain.Task, p *domain.Project) (*TaskView, error) {
	v := &TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Project:     ProjectRef{ID: p.ID, Name: p.Name},
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		sum, err := s.sums.Get(ctx, *t.AssigneeID)
		if err != nil {
			return nil, err
		}
		v.Assignee = sum
	}
	if t.CreatedByID != nil {
		sum, err := s.sums.Get(ctx, *t.CreatedByID)
		if err != nil {
			return nil, err
		}
		v.CreatedBy = sum
	}
	return v, nil
}

func (s *TaskService) views(ctx context.Context, tasks []domain.Task) ([]TaskView, error) {
	refs := map[string]ProjectRef{}
	out := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		ref, ok := refs[t.ProjectID]
		if !ok {
			p, err := s.projects.FindByID(ctx, t.ProjectID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				// Project went inactive between the list query and here.
				continue
			}
			ref = ProjectRef{ID: p.ID, Name: p.Name}
			refs[t.ProjectID] = ref
		}
		v, err := s.view(ctx, t, &domain.Project{ID: ref.ID, Name: ref.Name})
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
