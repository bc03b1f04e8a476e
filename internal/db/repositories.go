package db

// Repositories provides access to all database repositories
type Repositories struct {
	Tracks      *TrackRepository
	Menus       *MenuRepository
	MenuEntries *MenuEntryRepository
	Users       *UserRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Tracks:      NewTrackRepository(db),
		Menus:       NewMenuRepository(db),
		MenuEntries: NewMenuEntryRepository(db),
		Users:       NewUserRepository(db),
	}
}
