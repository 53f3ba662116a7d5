package waitlist

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swipefolio/landing-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.WaitlistSubscriber{}))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newSharedFileDB opens a file database with several connections so concurrent
// inserts reach the unique index from different connections.
func newSharedFileDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "waitlist.db") + "?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)

	require.NoError(t, db.AutoMigrate(&models.WaitlistSubscriber{}))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// raceSameEmail releases workers together and returns every result.
func raceSameEmail(t *testing.T, workers int, fn func() (*models.WaitlistSubscriber, bool, error)) (ids []uint, freshCount int) {
	t.Helper()

	ids = make([]uint, workers)
	start := make(chan struct{})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			got, fresh, err := fn()
			if !assert.NoError(t, err) || !assert.NotNil(t, got) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[i] = got.ID
			if fresh {
				freshCount++
			}
		}()
	}
	close(start)
	wg.Wait()
	return ids, freshCount
}

func TestRepository_CreateThenFind(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))
	ctx := context.Background()

	created, fresh, err := repo.Create(ctx, &models.WaitlistSubscriber{Email: "ada@example.com", FirstName: strPtr("Ada")})
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Ada", *found.FirstName)
	assert.Nil(t, found.LastName)
}

func TestRepository_FindByEmailMissing(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))

	found, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepository_CreateIsIdempotent(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))
	ctx := context.Background()

	first, fresh, err := repo.Create(ctx, &models.WaitlistSubscriber{Email: "a@b.com", FirstName: strPtr("First")})
	require.NoError(t, err)
	require.True(t, fresh)

	stored, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, fresh, err := repo.Create(ctx, &models.WaitlistSubscriber{Email: "a@b.com", FirstName: strPtr("Second")})
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, stored.CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, "First", *second.FirstName)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_InsertOrFetchFallsBackOnDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriberRepository(db).(*subscriberRepository)
	ctx := context.Background()

	seeded := &models.WaitlistSubscriber{Email: "race@example.com"}
	require.NoError(t, db.Create(seeded).Error)

	// Skips the lookup, as a request that lost the race would.
	got, fresh, err := repo.insertOrFetch(ctx, &models.WaitlistSubscriber{Email: "race@example.com", LastName: strPtr("Late")})
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, seeded.ID, got.ID)
	assert.Nil(t, got.LastName)
}

func TestRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))
	ctx := context.Background()

	const workers = 16
	ids := make([]uint, workers)
	freshCount := 0

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, fresh, err := repo.Create(ctx, &models.WaitlistSubscriber{Email: "same@example.com"})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[i] = got.ID
			if fresh {
				freshCount++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, freshCount)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_ConcurrentCreateAcrossConnections(t *testing.T) {
	const workers = 8
	db := newSharedFileDB(t, workers)
	repo := NewSubscriberRepository(db)
	ctx := context.Background()

	ids, freshCount := raceSameEmail(t, workers, func() (*models.WaitlistSubscriber, bool, error) {
		return repo.Create(ctx, &models.WaitlistSubscriber{Email: "rush@example.com"})
	})

	assert.Equal(t, 1, freshCount)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var count int64
	require.NoError(t, db.Model(&models.WaitlistSubscriber{}).Where("email = ?", "rush@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_ConcurrentInsertsHitUniqueIndex(t *testing.T) {
	const workers = 8
	db := newSharedFileDB(t, workers)
	repo := NewSubscriberRepository(db).(*subscriberRepository)
	ctx := context.Background()

	// Every worker skips the lookup, so all but one insert must lose on the unique index.
	ids, freshCount := raceSameEmail(t, workers, func() (*models.WaitlistSubscriber, bool, error) {
		return repo.insertOrFetch(ctx, &models.WaitlistSubscriber{Email: "index@example.com"})
	})

	assert.Equal(t, 1, freshCount)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestRepository_ListOrderedByInsertion(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := repo.Create(ctx, &models.WaitlistSubscriber{Email: fmt.Sprintf("user%d@example.com", i)})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, s := range all {
		assert.Equal(t, fmt.Sprintf("user%d@example.com", i), s.Email)
		if i > 0 {
			assert.Greater(t, s.ID, all[i-1].ID)
		}
	}
}

func TestRepository_ListEmpty(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestRepository_StorageFailureIsTyped(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriberRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindByEmail(context.Background(), "a@b.com")
	assert.True(t, IsStorageError(err))

	_, _, err = repo.Create(context.Background(), &models.WaitlistSubscriber{Email: "a@b.com"})
	assert.True(t, IsStorageError(err))

	_, err = repo.List(context.Background())
	assert.True(t, IsStorageError(err))
}
