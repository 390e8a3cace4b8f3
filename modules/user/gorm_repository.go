package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/storage"
)

// GormRepository stores users through GORM.
type GormRepository struct {
	db    *gorm.DB
	newID storage.IDFunc
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a GORM backed repository.
func NewGormRepository(db *gorm.DB, newID storage.IDFunc) *GormRepository {
	return &GormRepository{db: db, newID: newID}
}

// FindByEmail retrieves a user by normalized email.
func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID retrieves a user by id.
func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormRepository) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// Create saves a new user, assigning an id when absent.
func (r *GormRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = r.newID()
	}

	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}
