package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskhub/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// CreateWithOwner establishes the owner invariant atomically: the project row
// and its OWNER member row commit together or not at all.
func (r *ProjectRepo) CreateWithOwner(ctx context.Context, p *domain.Project, owner *domain.ProjectMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		owner.ProjectID = p.ID
		return tx.Create(owner).Error
	})
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).Preload("Members").
		First(&p, "id = ? AND active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) ListForUser(ctx context.Context, userID string, f domain.ProjectFilter) ([]domain.Project, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Project{}).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("projects.active = ? AND pm.user_id = ?", true, userID)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		tx = tx.Where("(LOWER(projects.name) LIKE LOWER(?) OR LOWER(projects.description) LIKE LOWER(?))", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx = tx.Order("projects.created_at desc")
	if f.Limit > 0 {
		offset := 0
		if f.Page > 1 {
			offset = (f.Page - 1) * f.Limit
		}
		tx = tx.Offset(offset).Limit(f.Limit)
	}

	var projects []domain.Project
	if err := tx.Preload("Members").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Omit("Members").Save(p).Error
}

// SoftDelete flips the active flag; member and task rows stay in place and
// become unreachable through the active-filtered read paths.
func (r *ProjectRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", id).Update("active", false).Error
}

func (r *ProjectRepo) AddMember(ctx context.Context, m *domain.ProjectMember) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDupKey(err) {
			return domain.WrapError(domain.KindAlreadyMember, "user is already a member of this project", err)
		}
		return err
	}
	return nil
}

func (r *ProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&domain.ProjectMember{}).Error
}

func (r *ProjectRepo) UpdateMemberRole(ctx context.Context, projectID, userID string, role domain.ProjectRole) error {
	return r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}

func (r *ProjectRepo) CountTasks(ctx context.Context, projectID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("project_id = ? AND active = ?", projectID, true).Count(&n).Error
	return n, err
}
