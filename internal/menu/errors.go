package menu

import "errors"

// Custom menu service errors
var (
	// ErrMenuNotFound indicates the requested menu does not exist
	ErrMenuNotFound = errors.New("menu not found")

	// ErrTrackNotFound indicates the requested track does not exist
	ErrTrackNotFound = errors.New("track not found")

	// ErrEntryNotFound indicates the requested menu entry does not exist
	ErrEntryNotFound = errors.New("menu entry not found")

	// ErrDuplicateEntry indicates the menu already contains the track
	ErrDuplicateEntry = errors.New("track already in menu")

	// ErrInvalidPosition indicates a position outside the menu's ordinal range
	ErrInvalidPosition = errors.New("position out of range")
)

// IsMenuNotFound checks if the error is a menu not found error
func IsMenuNotFound(err error) bool {
	return errors.Is(err, ErrMenuNotFound)
}

// IsTrackNotFound checks if the error is a track not found error
func IsTrackNotFound(err error) bool {
	return errors.Is(err, ErrTrackNotFound)
}

// IsEntryNotFound checks if the error is an entry not found error
func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsInvalidPosition checks if the error is an invalid position error
func IsInvalidPosition(err error) bool {
	return errors.Is(err, ErrInvalidPosition)
}
