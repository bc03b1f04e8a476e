package db

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cadenza-audio/cadenza/internal/models"
)

func setupDBTest(t *testing.T) *DB {
	t.Helper()

	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, RunMigrations(sqlDB, "file://../../migrations"))

	return database
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	database := setupDBTest(t)
	ctx := context.Background()

	user := models.NewUser("rollback-user", "hash")
	err := database.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, database.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Concurrent read-then-write transactions on the same table must all commit.
// The write lock is taken at BEGIN, so contenders queue on the busy timeout
// rather than aborting with SQLITE_BUSY.
func TestWithTransaction_ConcurrentWritersSerialize(t *testing.T) {
	database := setupDBTest(t)
	ctx := context.Background()

	const writers = 4
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = database.WithTransaction(ctx, func(tx *gorm.DB) error {
				var count int64
				if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
					return err
				}
				return tx.Create(models.NewUser(fmt.Sprintf("writer-%d", i), "hash")).Error
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}

	var count int64
	require.NoError(t, database.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(writers), count)
}
