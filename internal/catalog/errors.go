package catalog

import "errors"

// Custom catalog service errors
var (
	// ErrEmptyFile indicates an uploaded file with no content
	ErrEmptyFile = errors.New("uploaded file is empty")

	// ErrInvalidAudioFormat indicates an upload whose content is not audio
	ErrInvalidAudioFormat = errors.New("file is not a supported audio format")

	// ErrDuplicateTrack indicates a track with the same title and singer exists
	ErrDuplicateTrack = errors.New("track with this title and singer already exists")

	// ErrTrackNotFound indicates the requested track does not exist
	ErrTrackNotFound = errors.New("track not found")

	// ErrPathTraversal indicates a stored path that escapes the storage root
	ErrPathTraversal = errors.New("file path escapes storage root")
)

// IsEmptyFile checks if the error is an empty file error
func IsEmptyFile(err error) bool {
	return errors.Is(err, ErrEmptyFile)
}

// IsInvalidAudioFormat checks if the error is an invalid audio format error
func IsInvalidAudioFormat(err error) bool {
	return errors.Is(err, ErrInvalidAudioFormat)
}

// IsDuplicateTrack checks if the error is a duplicate track error
func IsDuplicateTrack(err error) bool {
	return errors.Is(err, ErrDuplicateTrack)
}

// IsTrackNotFound checks if the error is a track not found error
func IsTrackNotFound(err error) bool {
	return errors.Is(err, ErrTrackNotFound)
}

// IsPathTraversal checks if the error is a path traversal error
func IsPathTraversal(err error) bool {
	return errors.Is(err, ErrPathTraversal)
}
