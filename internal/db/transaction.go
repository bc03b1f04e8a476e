package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction executes fn inside a database transaction. The transaction
// commits when fn returns nil and rolls back when fn returns an error or
// panics, so no partial state is ever observable. Structural playlist changes
// rely on this for their gap-free position invariant.
func (db *DB) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return fmt.Errorf("transaction error: %w", err)
		}
		return nil
	})
}
