package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/media"
	"github.com/cadenza-audio/cadenza/internal/models"
	"github.com/cadenza-audio/cadenza/internal/playback"
)

// Service owns the track catalog: ingesting uploads, serving playback and
// download requests, and keeping catalog rows and their stored blobs
// consistent with each other.
type Service struct {
	db        *db.DB
	repos     *db.Repositories
	storage   *Storage
	responder *playback.Responder
	maxUpload int64
}

// NewService creates a new catalog service
func NewService(database *db.DB, repos *db.Repositories, storage *Storage, maxUpload int64) *Service {
	return &Service{
		db:        database,
		repos:     repos,
		storage:   storage,
		responder: playback.NewResponder(),
		maxUpload: maxUpload,
	}
}

// MaxUploadBytes returns the configured upload size ceiling.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxUpload
}

// Upload ingests an uploaded audio file: the content is staged to disk,
// sniffed and rejected unless it is really audio, mined for tags and
// duration, then stored under a fresh UUID name with a catalog row pointing
// at it. The blob is written before the row; if the row insert fails the blob
// and any extracted cover are removed again so no orphan survives.
func (s *Service) Upload(ctx context.Context, actor uuid.UUID, originalName string, content io.Reader) (*models.Track, error) {
	staged, err := s.stage(content)
	if err != nil {
		return nil, err
	}
	defer func() {
		if staged != "" {
			os.Remove(staged)
		}
	}()

	if !media.IsAudioFile(staged) {
		return nil, ErrInvalidAudioFormat
	}

	info := media.Extract(staged, originalName)

	exists, err := s.repos.Tracks.ExistsByTitleSinger(ctx, info.Title, info.Singer, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate track: %w", err)
	}
	if exists {
		return nil, ErrDuplicateTrack
	}

	track := models.NewTrack(actor, info.Title, info.Singer)
	track.Album = info.Album
	track.Duration = info.Duration
	track.FileType = fileTypeOf(originalName)
	track.FileName = media.SafeFileName(info.Title, info.Singer, track.FileType)
	track.FilePath = track.ID.String() + "." + track.FileType

	dest, err := s.storage.ResolveMusic(track.FilePath)
	if err != nil {
		return nil, err
	}
	size, err := finishStaged(staged, dest)
	if err != nil {
		return nil, err
	}
	staged = ""
	track.FileSize = humanize.Bytes(uint64(size))

	if len(info.Cover) > 0 {
		if rel, err := s.storeCover(track.ID, info.Cover, info.CoverMIME); err != nil {
			logger.Log.Warn().
				Err(err).
				Str("track_id", track.ID.String()).
				Msg("Failed to store embedded cover art")
		} else {
			track.CoverPath = &rel
		}
	}

	if err := s.repos.Tracks.Create(ctx, track); err != nil {
		s.storage.RemoveMusic(track.FilePath)
		if track.CoverPath != nil {
			s.storage.RemoveCover(*track.CoverPath)
		}
		return nil, fmt.Errorf("failed to create track: %w", err)
	}

	logger.Log.Info().
		Str("track_id", track.ID.String()).
		Str("title", track.Title).
		Str("singer", track.Singer).
		Str("size", track.FileSize).
		Msg("Track uploaded")

	return track, nil
}

// stage copies the upload into a temporary file under the music root,
// enforcing the size ceiling and rejecting empty content.
func (s *Service) stage(content io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.storage.MusicRoot(), "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}
	written, err := io.Copy(tmp, io.LimitReader(content, s.maxUpload+1))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write staged upload: %w", err)
	}
	if written == 0 {
		os.Remove(tmp.Name())
		return "", ErrEmptyFile
	}
	if written > s.maxUpload {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("upload exceeds %s limit", humanize.Bytes(uint64(s.maxUpload)))
	}
	return tmp.Name(), nil
}

func finishStaged(staged, dest string) (int64, error) {
	fi, err := os.Stat(staged)
	if err != nil {
		return 0, fmt.Errorf("failed to stat staged upload: %w", err)
	}
	if err := os.Rename(staged, dest); err != nil {
		return 0, fmt.Errorf("failed to move upload into storage: %w", err)
	}
	return fi.Size(), nil
}

func (s *Service) storeCover(trackID uuid.UUID, data []byte, mime string) (string, error) {
	ext := ".jpg"
	if strings.Contains(mime, "png") {
		ext = ".png"
	}
	rel := trackID.String() + ext
	abs, err := s.storage.ResolveCover(rel)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cover art: %w", err)
	}
	return rel, nil
}

func fileTypeOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = "mp3"
	}
	return ext
}

// Get returns a single track by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Track, error) {
	track, err := s.repos.Tracks.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return track, nil
}

// List returns a page of tracks matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter db.TrackFilter, page, size int) ([]*models.Track, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	total, err := s.repos.Tracks.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	tracks, err := s.repos.Tracks.List(ctx, filter, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, total, nil
}

// Update edits a track's descriptive fields. The title/singer pair must stay
// unique among live tracks, excluding the track itself.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, title, singer, album string) (*models.Track, error) {
	track, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repos.Tracks.ExistsByTitleSinger(ctx, title, singer, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate track: %w", err)
	}
	if exists {
		return nil, ErrDuplicateTrack
	}

	track.Title = title
	track.Singer = singer
	track.Album = album
	track.FileName = media.SafeFileName(title, singer, track.FileType)
	track.StampUpdated(actor, time.Now().UTC())
	if err := s.repos.Tracks.Update(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to update track: %w", err)
	}
	return track, nil
}

// Delete removes the given tracks: stored blobs first, then the rows and any
// menu entries pointing at them, with affected menus renumbered so their
// position runs stay contiguous.
func (s *Service) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		track, err := s.Get(ctx, id)
		if err != nil {
			if IsTrackNotFound(err) {
				continue
			}
			return err
		}
		if err := s.storage.RemoveMusic(track.FilePath); err != nil {
			return err
		}
		if track.CoverPath != nil {
			if err := s.storage.RemoveCover(*track.CoverPath); err != nil {
				return err
			}
		}
	}

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var menuIDs []uuid.UUID
		if err := tx.Model(&models.MenuEntry{}).
			Distinct("menu_id").
			Where("track_id IN ?", ids).
			Pluck("menu_id", &menuIDs).Error; err != nil {
			return fmt.Errorf("failed to find affected menus: %w", err)
		}

		if err := tx.Where("track_id IN ?", ids).Delete(&models.MenuEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete menu entries: %w", err)
		}

		for _, menuID := range menuIDs {
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
		}

		if err := tx.Where("id IN ?", ids).Delete(&models.Track{}).Error; err != nil {
			return fmt.Errorf("failed to delete tracks: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info().
		Int("count", len(ids)).
		Msg("Tracks deleted")

	return nil
}

// Play builds a streaming response for a track, honoring any byte-range
// request, and counts the play. The stored path is containment-checked on
// every request before the file is touched.
func (s *Service) Play(ctx context.Context, id uuid.UUID, rangeHeader string) (*playback.Response, error) {
	track, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.storage.ResolveMusic(track.FilePath)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Tracks.IncrementPlayCount(ctx, id); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("track_id", id.String()).
			Msg("Failed to increment play count")
	}

	mime := media.MimeTypeForExtension(track.FileType)
	return s.responder.Respond(path, track.FileName, mime, rangeHeader, false), nil
}

// Download builds an attachment response for a track's original file.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (*playback.Response, error) {
	track, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.storage.ResolveMusic(track.FilePath)
	if err != nil {
		return nil, err
	}
	return s.responder.Respond(path, track.FileName, "", "", true), nil
}

// Cover returns the absolute path and MIME type of a track's cover art.
// Tracks without embedded art report not found.
func (s *Service) Cover(ctx context.Context, id uuid.UUID) (string, string, error) {
	track, err := s.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	if track.CoverPath == nil {
		return "", "", ErrTrackNotFound
	}
	path, err := s.storage.ResolveCover(*track.CoverPath)
	if err != nil {
		return "", "", err
	}
	mime := "image/jpeg"
	if strings.HasSuffix(path, ".png") {
		mime = "image/png"
	}
	return path, mime, nil
}
