package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cadenza-audio/cadenza/internal/models"
)

// MenuEntryRepository handles database operations for menu entries. Position
// arithmetic itself lives in the menu service so the shift and reindex
// statements share one transaction with the deletes.
type MenuEntryRepository struct {
	db *DB
}

// NewMenuEntryRepository creates a new menu entry repository
func NewMenuEntryRepository(db *DB) *MenuEntryRepository {
	return &MenuEntryRepository{db: db}
}

// GetByID retrieves a menu entry by its UUID
func (r *MenuEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuEntry, error) {
	var entry models.MenuEntry
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// ExistsActive reports whether the menu already holds an active entry for the
// given track.
func (r *MenuEntryRepository) ExistsActive(ctx context.Context, menuID, trackID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuEntry{}).
		Where("menu_id = ? AND track_id = ?", menuID.String(), trackID.String()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check entry existence: %w", MapGormError(err))
	}
	return count > 0, nil
}

// CountByMenu returns the number of active entries in a menu
func (r *MenuEntryRepository) CountByMenu(ctx context.Context, menuID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuEntry{}).
		Where("menu_id = ?", menuID.String()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count menu entries: %w", MapGormError(err))
	}
	return count, nil
}

// ListByMenu retrieves all active entries of a menu ordered by position
func (r *MenuEntryRepository) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*models.MenuEntry, error) {
	var entries []*models.MenuEntry
	result := r.db.WithContext(ctx).
		Where("menu_id = ?", menuID.String()).
		Order("position ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list menu entries: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// ListWithTracks retrieves a page of active entries of a menu joined with
// their track metadata, ordered by ascending position. The filter narrows on
// the joined track columns. The total count matching the filter is returned
// alongside the page.
func (r *MenuEntryRepository) ListWithTracks(ctx context.Context, menuID uuid.UUID, filter TrackFilter, limit, offset int) ([]*models.MenuEntry, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Table("menu_entries").
			Joins("JOIN tracks ON tracks.id = menu_entries.track_id AND tracks.deleted_at IS NULL").
			Where("menu_entries.menu_id = ? AND menu_entries.deleted_at IS NULL", menuID.String())
		return filter.apply(q, "tracks.")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count menu tracks: %w", MapGormError(err))
	}

	var entries []*models.MenuEntry
	err := base().
		Select("menu_entries.*").
		Order("menu_entries.position ASC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list menu tracks: %w", MapGormError(err))
	}

	if err := r.attachTracks(ctx, entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// attachTracks fills the joined Track field of each entry in one query
func (r *MenuEntryRepository) attachTracks(ctx context.Context, entries []*models.MenuEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TrackID.String())
	}

	var tracks []*models.Track
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tracks).Error; err != nil {
		return fmt.Errorf("failed to load entry tracks: %w", MapGormError(err))
	}

	byID := make(map[uuid.UUID]*models.Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}
	for _, e := range entries {
		e.Track = byID[e.TrackID]
	}
	return nil
}
