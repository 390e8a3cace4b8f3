package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/storage"
)

// GormRepository stores tasks through GORM.
type GormRepository struct {
	db    *gorm.DB
	newID storage.IDFunc
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a GORM backed repository.
func NewGormRepository(db *gorm.DB, newID storage.IDFunc) *GormRepository {
	return &GormRepository{db: db, newID: newID}
}

// FindAll retrieves the user's tasks ordered by creation time, newest first.
func (r *GormRepository) FindAll(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// FindByID retrieves a task by its id.
func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Create saves a new task.
func (r *GormRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	created := *t
	if created.ID == "" {
		created.ID = r.newID()
	}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &created, nil
}

// Update applies the change set and re-reads the task.
func (r *GormRepository) Update(ctx context.Context, id string, c domain.Changes) (*domain.Task, error) {
	cols := changedColumns(c)
	if len(cols) > 0 {
		result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(cols)
		if err := result.Error; err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	updated, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes a task by id.
func (r *GormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
