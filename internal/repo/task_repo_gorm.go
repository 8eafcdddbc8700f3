package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskhub/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "id = ? AND active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) ListForUser(ctx context.Context, userID string, f domain.TaskFilter) ([]domain.Task, int64, error) {
	// Joining projects keeps tasks of soft-deleted projects out of the list,
	// matching the point-lookup behavior.
	tx := r.db.WithContext(ctx).Model(&domain.Task{}).
		Joins("JOIN projects p ON p.id = tasks.project_id AND p.active = ?", true).
		Where("tasks.active = ?", true).
		Where("(tasks.assignee_id = ? OR tasks.created_by_id = ?)", userID, userID)
	if f.Status != nil {
		tx = tx.Where("tasks.status = ?", *f.Status)
	}
	if f.Priority != nil {
		tx = tx.Where("tasks.priority = ?", *f.Priority)
	}
	if f.AssigneeID != "" {
		tx = tx.Where("tasks.assignee_id = ?", f.AssigneeID)
	}
	if f.ProjectID != "" {
		tx = tx.Where("tasks.project_id = ?", f.ProjectID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx = tx.Order("tasks.created_at desc")
	if f.Limit > 0 {
		offset := 0
		if f.Page > 1 {
			offset = (f.Page - 1) * f.Limit
		}
		tx = tx.Offset(offset).Limit(f.Limit)
	}

	var tasks []domain.Task
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Order("created_at desc").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	// Save with a full struct keeps nil-able columns (assignee, due date)
	// writable back to NULL.
	return r.db.WithContext(ctx).Model(t).Select("*").Omit("id", "project_id", "created_at").Updates(t).Error
}

func (r *TaskRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", id).Update("active", false).Error
}
