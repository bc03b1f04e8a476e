package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cadenza-audio/cadenza/internal/models"
)

// MenuRepository handles database operations for menus (playlists)
type MenuRepository struct {
	db *DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Create inserts a new menu
func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	result := r.db.WithContext(ctx).Create(menu)
	if result.Error != nil {
		return fmt.Errorf("failed to create menu: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a menu by its UUID
func (r *MenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&menu)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &menu, nil
}

// ListByOwner retrieves a page of menus owned by the given user, newest
// first, optionally filtered by a title substring.
func (r *MenuRepository) ListByOwner(ctx context.Context, owner uuid.UUID, title string, limit, offset int) ([]*models.Menu, error) {
	var menus []*models.Menu
	q := r.db.WithContext(ctx).Model(&models.Menu{}).Where("user_id = ?", owner.String())
	if title != "" {
		q = q.Where("title LIKE ?", "%"+title+"%")
	}
	result := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&menus)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list menus: %w", MapGormError(result.Error))
	}
	return menus, nil
}

// CountByOwner returns the number of active menus owned by the given user
// matching the optional title filter.
func (r *MenuRepository) CountByOwner(ctx context.Context, owner uuid.UUID, title string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Menu{}).Where("user_id = ?", owner.String())
	if title != "" {
		q = q.Where("title LIKE ?", "%"+title+"%")
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count menus: %w", MapGormError(err))
	}
	return count, nil
}

// Update saves modified menu metadata
func (r *MenuRepository) Update(ctx context.Context, menu *models.Menu) error {
	result := r.db.WithContext(ctx).Save(menu)
	if result.Error != nil {
		return fmt.Errorf("failed to update menu: %w", MapGormError(result.Error))
	}
	return nil
}
