package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cadenza-audio/cadenza/internal/models"
)

// TrackRepository handles database operations for catalog tracks
type TrackRepository struct {
	db *DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// TrackFilter narrows track queries by title and singer substring match.
type TrackFilter struct {
	Title  string
	Singer string
}

func (f TrackFilter) apply(q *gorm.DB, prefix string) *gorm.DB {
	if f.Title != "" {
		q = q.Where(prefix+"title LIKE ?", "%"+f.Title+"%")
	}
	if f.Singer != "" {
		q = q.Where(prefix+"singer LIKE ?", "%"+f.Singer+"%")
	}
	return q
}

// Create inserts a new track into the catalog
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	result := r.db.WithContext(ctx).Create(track)
	if result.Error != nil {
		return fmt.Errorf("failed to create track: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a track by its UUID. Soft-deleted rows are never returned.
func (r *TrackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Track, error) {
	var track models.Track
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&track)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &track, nil
}

// ExistsByTitleSinger reports whether an active track with the given
// (title, singer) pair exists, excluding excludeID (pass uuid.Nil to exclude
// nothing).
func (r *TrackRepository) ExistsByTitleSinger(ctx context.Context, title, singer string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Track{}).
		Where("title = ? AND singer = ?", title, singer)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID.String())
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check track uniqueness: %w", MapGormError(err))
	}
	return count > 0, nil
}

// List retrieves tracks matching the filter, newest first
func (r *TrackRepository) List(ctx context.Context, filter TrackFilter, limit, offset int) ([]*models.Track, error) {
	var tracks []*models.Track
	q := filter.apply(r.db.WithContext(ctx).Model(&models.Track{}), "")
	result := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tracks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", MapGormError(result.Error))
	}
	return tracks, nil
}

// Count returns the number of active tracks matching the filter
func (r *TrackRepository) Count(ctx context.Context, filter TrackFilter) (int64, error) {
	var count int64
	q := filter.apply(r.db.WithContext(ctx).Model(&models.Track{}), "")
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", MapGormError(err))
	}
	return count, nil
}

// Update saves modified track metadata
func (r *TrackRepository) Update(ctx context.Context, track *models.Track) error {
	result := r.db.WithContext(ctx).Save(track)
	if result.Error != nil {
		return fmt.Errorf("failed to update track: %w", MapGormError(result.Error))
	}
	return nil
}

// IncrementPlayCount bumps a track's play counter
func (r *TrackRepository) IncrementPlayCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Track{}).
		Where("id = ?", id.String()).
		Update("play_count", gorm.Expr("play_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment play count: %w", MapGormError(result.Error))
	}
	return nil
}
