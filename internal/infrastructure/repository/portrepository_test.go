package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/infrastructure/persistence/models"
	"github.com/orris-inc/berth/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps the in-memory database shared and serializes
	// concurrent transactions the way a real server would queue them.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = gormDB.AutoMigrate(
		&models.PortModel{},
		&models.SubscriptionModel{},
		&models.OrderModel{},
		&models.AllocationLogModel{},
	)
	require.NoError(t, err)

	return gormDB
}

func createTestPort(t *testing.T, repo port.Repository, instanceURL, name string) *port.Port {
	t.Helper()
	p, err := port.NewPort(instanceURL, name, "eu-west")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPortRepository_Create(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewPortRepository(gormDB, logger.NewLogger())
	ctx := context.Background()

	t.Run("create assigns ID", func(t *testing.T) {
		p := createTestPort(t, repo, "https://node-1.example.com", "node-1")
		assert.NotZero(t, p.ID())
	})

	t.Run("duplicate instance URL rejected", func(t *testing.T) {
		createTestPort(t, repo, "https://node-dup.example.com", "node-a")

		p2, err := port.NewPort("https://node-dup.example.com", "node-b", "eu-west")
		require.NoError(t, err)

		err = repo.Create(ctx, p2)
		assert.ErrorIs(t, err, port.ErrInstanceURLExists)
	})
}

func TestPortRepository_GetAndList(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewPortRepository(gormDB, logger.NewLogger())
	ctx := context.Background()

	p := createTestPort(t, repo, "https://node-get.example.com", "node-get")

	t.Run("get by ID", func(t *testing.T) {
		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, p.SID(), found.SID())
		assert.Equal(t, vo.StatusAvailable, found.Status())
	})

	t.Run("get by SID", func(t *testing.T) {
		found, err := repo.GetBySID(ctx, p.SID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, p.ID(), found.ID())
	})

	t.Run("missing port returns nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 99999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("list filters by status", func(t *testing.T) {
		status := vo.StatusAvailable
		ports, total, err := repo.List(ctx, port.ListFilter{Status: &status, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(1))
		assert.NotEmpty(t, ports)
	})
}

func TestPortRepository_FindAvailable(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewPortRepository(gormDB, logger.NewLogger())
	ctx := context.Background()

	first := createTestPort(t, repo, "https://node-f1.example.com", "node-f1")
	createTestPort(t, repo, "https://node-f2.example.com", "node-f2")

	t.Run("oldest port comes first", func(t *testing.T) {
		candidates, err := repo.FindAvailable(ctx, 1)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, first.ID(), candidates[0].ID())
	})

	t.Run("count matches", func(t *testing.T) {
		count, err := repo.CountAvailable(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestPortRepository_AssignAtomically(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewPortRepository(gormDB, logger.NewLogger())
	ctx := context.Background()

	p := createTestPort(t, repo, "https://node-cas.example.com", "node-cas")
	now := time.Now().UTC()

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := repo.AssignAtomically(ctx, p.ID(), 10, 20, now)
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.StatusAssigned, found.Status())
		require.NotNil(t, found.Assignment())
		assert.Equal(t, uint(10), found.Assignment().SubscriptionID())
	})

	t.Run("second claim loses", func(t *testing.T) {
		ok, err := repo.AssignAtomically(ctx, p.ID(), 11, 21, now)
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, uint(10), found.Assignment().SubscriptionID())
	})

	t.Run("release returns port to pool", func(t *testing.T) {
		ok, err := repo.ReleaseAtomically(ctx, p.ID())
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.StatusAvailable, found.Status())
		assert.Nil(t, found.Assignment())
	})

	t.Run("release leaves disabled port untouched", func(t *testing.T) {
		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		require.NoError(t, found.Disable())
		require.NoError(t, repo.Update(ctx, found))

		ok, err := repo.ReleaseAtomically(ctx, p.ID())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPortRepository_Delete(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewPortRepository(gormDB, logger.NewLogger())
	ctx := context.Background()

	t.Run("delete unassigned port", func(t *testing.T) {
		p := createTestPort(t, repo, "https://node-del.example.com", "node-del")

		require.NoError(t, repo.Delete(ctx, p.ID()))

		found, err := repo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("delete assigned port rejected", func(t *testing.T) {
		p := createTestPort(t, repo, "https://node-del2.example.com", "node-del2")
		ok, err := repo.AssignAtomically(ctx, p.ID(), 10, 20, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)

		assert.Error(t, repo.Delete(ctx, p.ID()))
	})
}
