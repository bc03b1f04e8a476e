package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/models"
)

// Service manages menus and their ordered track entries. Entries in a menu
// hold a contiguous run of positions 0..N-1 with no gaps and no duplicates;
// every structural mutation runs inside a single transaction so the run stays
// dense even when requests interleave.
type Service struct {
	db    *db.DB
	repos *db.Repositories
}

// NewService creates a new menu service
func NewService(database *db.DB, repos *db.Repositories) *Service {
	return &Service{
		db:    database,
		repos: repos,
	}
}

// Create creates a new menu owned by the acting user.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, title string) (*models.Menu, error) {
	m := models.NewMenu(actor, title)
	if err := s.repos.Menus.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	logger.Log.Info().
		Str("menu_id", m.ID.String()).
		Str("title", m.Title).
		Msg("Menu created")

	return m, nil
}

// Rename updates a menu's title.
func (s *Service) Rename(ctx context.Context, actor uuid.UUID, menuID uuid.UUID, title string) (*models.Menu, error) {
	m, err := s.repos.Menus.GetByID(ctx, menuID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	m.Title = title
	m.StampUpdated(actor, time.Now().UTC())
	if err := s.repos.Menus.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}

	return m, nil
}

// List returns the acting user's menus matching the optional title filter,
// newest first, with the active entry count attached to each menu.
func (s *Service) List(ctx context.Context, owner uuid.UUID, title string, page, size int) ([]*models.Menu, int64, error) {
	limit, offset := pageBounds(page, size)

	total, err := s.repos.Menus.CountByOwner(ctx, owner, title)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count menus: %w", err)
	}

	menus, err := s.repos.Menus.ListByOwner(ctx, owner, title, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list menus: %w", err)
	}

	for _, m := range menus {
		count, err := s.repos.MenuEntries.CountByMenu(ctx, m.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count menu entries: %w", err)
		}
		m.TrackCount = count
	}

	return menus, total, nil
}

// Delete removes the given menus and all of their entries.
func (s *Service) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("menu_id IN ?", ids).Delete(&models.MenuEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete menu entries: %w", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Menu{}).Error; err != nil {
			return fmt.Errorf("failed to delete menus: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info().
		Int("count", len(ids)).
		Msg("Menus deleted")

	return nil
}

// AddTrack appends a track to the end of a menu. The new entry takes position
// N where N is the current number of active entries, so the position run stays
// contiguous. Adding a track the menu already contains fails with
// ErrDuplicateEntry and leaves the menu untouched.
func (s *Service) AddTrack(ctx context.Context, actor uuid.UUID, menuID, trackID uuid.UUID) (*models.MenuEntry, error) {
	if _, err := s.repos.Menus.GetByID(ctx, menuID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	if _, err := s.repos.Tracks.GetByID(ctx, trackID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	var entry *models.MenuEntry
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var dupes int64
		if err := tx.Model(&models.MenuEntry{}).
			Where("menu_id = ? AND track_id = ?", menuID, trackID).
			Count(&dupes).Error; err != nil {
			return fmt.Errorf("failed to check for existing entry: %w", err)
		}
		if dupes > 0 {
			return ErrDuplicateEntry
		}

		var count int64
		if err := tx.Model(&models.MenuEntry{}).
			Where("menu_id = ?", menuID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count menu entries: %w", err)
		}

		entry = models.NewMenuEntry(actor, menuID, trackID, int(count))
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create menu entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("menu_id", menuID.String()).
		Str("track_id", trackID.String()).
		Int("position", entry.Position).
		Msg("Track added to menu")

	return entry, nil
}

// RemoveTracks removes the given entries from a menu and renumbers the
// survivors so positions are contiguous again. Each surviving entry's new
// position is the count of surviving entries that sat before it, which
// preserves relative order while closing every gap in one statement.
func (s *Service) RemoveTracks(ctx context.Context, menuID uuid.UUID, entryIDs []uuid.UUID) error {
	if len(entryIDs) == 0 {
		return nil
	}

	if _, err := s.repos.Menus.GetByID(ctx, menuID); err != nil {
		if db.IsNotFound(err) {
			return ErrMenuNotFound
		}
		return fmt.Errorf("failed to get menu: %w", err)
	}

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("menu_id = ? AND id IN ?", menuID, entryIDs).Delete(&models.MenuEntry{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete menu entries: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrEntryNotFound
		}

		if err := tx.Exec(`
			UPDATE menu_entries SET position = (
				SELECT COUNT(1) FROM menu_entries AS prior
				WHERE prior.menu_id = menu_entries.menu_id
				  AND prior.deleted_at IS NULL
				  AND prior.position < menu_entries.position
			)
			WHERE menu_id = ? AND deleted_at IS NULL`, menuID).Error; err != nil {
			return fmt.Errorf("failed to renumber menu entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info().
		Str("menu_id", menuID.String()).
		Int("count", len(entryIDs)).
		Msg("Tracks removed from menu")

	return nil
}

// MoveTrack moves the entry at startPos to endPos within a menu. Entries
// between the two positions shift by one toward the vacated slot and the moved
// entry lands exactly at endPos, so the run stays dense. Equal positions are a
// no-op.
func (s *Service) MoveTrack(ctx context.Context, actor uuid.UUID, menuID uuid.UUID, startPos, endPos int) error {
	if startPos == endPos {
		return nil
	}
	if startPos < 0 || endPos < 0 {
		return ErrInvalidPosition
	}

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var moved models.MenuEntry
		if err := tx.Where("menu_id = ? AND position = ?", menuID, startPos).
			First(&moved).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrEntryNotFound
			}
			return fmt.Errorf("failed to get moved entry: %w", err)
		}

		var count int64
		if err := tx.Model(&models.MenuEntry{}).
			Where("menu_id = ?", menuID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count menu entries: %w", err)
		}
		if int64(endPos) >= count {
			return ErrInvalidPosition
		}

		// Shift the displaced interval first, then drop the moved entry into
		// the freed slot.
		var shift *gorm.DB
		if startPos > endPos {
			shift = tx.Model(&models.MenuEntry{}).
				Where("menu_id = ? AND position >= ? AND position < ?", menuID, endPos, startPos).
				Update("position", gorm.Expr("position + 1"))
		} else {
			shift = tx.Model(&models.MenuEntry{}).
				Where("menu_id = ? AND position > ? AND position <= ?", menuID, startPos, endPos).
				Update("position", gorm.Expr("position - 1"))
		}
		if shift.Error != nil {
			return fmt.Errorf("failed to shift menu entries: %w", shift.Error)
		}

		if err := tx.Model(&models.MenuEntry{}).
			Where("id = ?", moved.ID).
			Updates(map[string]interface{}{
				"position":   endPos,
				"updated_by": actor,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return fmt.Errorf("failed to reposition moved entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info().
		Str("menu_id", menuID.String()).
		Int("from", startPos).
		Int("to", endPos).
		Msg("Menu entry moved")

	return nil
}

// ListTracks returns a page of a menu's entries in position order, with each
// entry's track attached. The track filter narrows the page by title or
// singer without disturbing the order.
func (s *Service) ListTracks(ctx context.Context, menuID uuid.UUID, filter db.TrackFilter, page, size int) ([]*models.MenuEntry, int64, error) {
	if _, err := s.repos.Menus.GetByID(ctx, menuID); err != nil {
		if db.IsNotFound(err) {
			return nil, 0, ErrMenuNotFound
		}
		return nil, 0, fmt.Errorf("failed to get menu: %w", err)
	}

	limit, offset := pageBounds(page, size)
	return s.repos.MenuEntries.ListWithTracks(ctx, menuID, filter, limit, offset)
}

// pageBounds converts a 1-based page and size into a limit/offset pair,
// defaulting to the first page of ten.
func pageBounds(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return size, (page - 1) * size
}
