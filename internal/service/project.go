package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskhub/internal/domain"
	"taskhub/internal/domain/policy"
	"taskhub/pkg/utils"
)

// ProjectService is the project lifecycle manager: create, update, soft-delete
// and the membership mutations, all gated by the project policy.
type ProjectService struct {
	projects domain.ProjectRepository
	users    domain.UserRepository
	sums     UserSummaries
	log      *zap.Logger
}

func NewProjectService(projects domain.ProjectRepository, users domain.UserRepository, sums UserSummaries, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{projects: projects, users: users, sums: sums, log: log}
}

// load is the shared head of the load → policy → mutate → reload pipeline.
func (s *ProjectService) load(ctx context.Context, id string) (*domain.Project, domain.Membership, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Membership{}, err
	}
	if p == nil {
		return nil, domain.Membership{}, domain.NewError(domain.KindNotFound, "project not found")
	}
	return p, domain.NewMembership(p.Members), nil
}

// Create needs no authorization: any authenticated user may open a project.
// The OWNER member row is inserted in the same transaction as the project.
func (s *ProjectService) Create(ctx context.Context, ownerID, name, description string) (*ProjectView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.KindValidation, "project name is required")
	}

	p := &domain.Project{
		ID:          utils.NewID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Active:      true,
	}
	owner := &domain.ProjectMember{
		ID:     utils.NewID(),
		UserID: ownerID,
		Role:   domain.ProjectRoleOwner,
	}
	if err := s.projects.CreateWithOwner(ctx, p, owner); err != nil {
		return nil, err
	}
	s.log.Info("project created", zap.String("project_id", p.ID), zap.String("owner_id", ownerID))
	return s.Get(ctx, p.ID, ownerID)
}

// Get enforces VIEW and returns the full read-model with members and counts.
func (s *ProjectService) Get(ctx context.Context, id, actorID string) (*ProjectView, error) {
	p, ms, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanProject(policy.ProjectView, ms, actorID); err != nil {
		return nil, err
	}
	return s.view(ctx, p, true)
}

// List returns projects where the user is a member, newest first.
func (s *ProjectService) List(ctx context.Context, userID string, f domain.ProjectFilter) (*Paginated[ProjectView], error) {
	projects, total, err := s.projects.ListForUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		v, err := s.view(ctx, &projects[i], false)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return paginate(views, f.Page, f.Limit, total), nil
}

func (s *ProjectService) Update(ctx context.Context, id string, patch domain.ProjectPatch, actorID string) (*ProjectView, error) {
	p, ms, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanProject(policy.ProjectUpdate, ms, actorID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewError(domain.KindValidation, "project name is required")
		}
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.view(ctx, p, true)
}

// Remove soft-deletes the project. Terminal: there is no reactivation, and a
// second Remove sees NotFound. Member and task rows are left in place; the
// active filter makes them unreachable.
func (s *ProjectService) Remove(ctx context.Context, id, actorID string) error {
	_, ms, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanProject(policy.ProjectDelete, ms, actorID); err != nil {
		return err
	}
	if err := s.projects.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("project deleted", zap.String("project_id", id), zap.String("actor_id", actorID))
	return nil
}

// AddMember adds (userID, role) to the project. The policy rejection is the
// fast path; the unique (project,user) index settles concurrent adds.
func (s *ProjectService) AddMember(ctx context.Context, projectID, targetUserID string, role domain.ProjectRole, actorID string) (*ProjectView, error) {
	if role == "" {
		role = domain.ProjectRoleMember
	}
	if !role.Valid() || role == domain.ProjectRoleOwner {
		return nil, domain.NewError(domain.KindValidation, "role must be ADMIN or MEMBER")
	}

	_, ms, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAddMember(ms, actorID, target); err != nil {
		return nil, err
	}

	m := &domain.ProjectMember{
		ID:        utils.NewID(),
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      role,
	}
	if err := s.projects.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx, projectID, actorID)
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, targetUserID, actorID string) (*ProjectView, error) {
	_, ms, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanRemoveMember(ms, actorID, targetUserID); err != nil {
		return nil, err
	}
	if err := s.projects.RemoveMember(ctx, projectID, targetUserID); err != nil {
		return nil, err
	}
	return s.Get(ctx, projectID, actorID)
}

func (s *ProjectService) UpdateMemberRole(ctx context.Context, projectID, targetUserID string, role domain.ProjectRole, actorID string) (*ProjectView, error) {
	if !role.Valid() || role == domain.ProjectRoleOwner {
		return nil, domain.NewError(domain.KindValidation, "role must be ADMIN or MEMBER")
	}
	_, ms, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanChangeRole(ms, actorID, targetUserID); err != nil {
		return nil, err
	}
	if err := s.projects.UpdateMemberRole(ctx, projectID, targetUserID, role); err != nil {
		return nil, err
	}
	return s.Get(ctx, projectID, actorID)
}

// view assembles the read-model; withMembers is false for list rows, which
// carry only the owner summary and counts.
func (s *ProjectService) view(ctx context.Context, p *domain.Project, withMembers bool) (*ProjectView, error) {
	v := &ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Owner:       domain.UserSummary{ID: p.OwnerID},
		Counts:      ProjectCounts{Members: len(p.Members)},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if sum, err := s.sums.Get(ctx, p.OwnerID); err != nil {
		return nil, err
	} else if sum != nil {
		v.Owner = *sum
	}

	tasks, err := s.projects.CountTasks(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	v.Counts.Tasks = tasks

	if withMembers {
		v.Members = make([]MemberView, 0, len(p.Members))
		for _, m := range p.Members {
			mv := MemberView{
				ID:       m.ID,
				UserID:   m.UserID,
				Role:     m.Role,
				JoinedAt: m.JoinedAt,
				User:     domain.UserSummary{ID: m.UserID},
			}
			if sum, err := s.sums.Get(ctx, m.UserID); err != nil {
				return nil, err
			} else if sum != nil {
				mv.User = *sum
			}
			v.Members = append(v.Members, mv)
		}
	}
	return v, nil
}
