//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Post{},
		&models.Comment{}, &models.Like{},
	))
	return db
}

// Hammers ToggleLike from many goroutines for one (user, post) pair. The
// unique composite index must keep the ledger at no more than one row no
// matter how the toggles interleave.
func TestIntegration_ToggleLike_ConcurrentToggles(t *testing.T) {
	db := setupIntegrationDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := &models.User{Username: fmt.Sprintf("toggler-%d", time.Now().UnixNano())}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{Title: "Toggle storm", Content: "body", UserID: user.ID}
	require.NoError(t, db.Create(post).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM likes WHERE post_id = ?", post.ID)
		db.Unscoped().Delete(post)
		db.Unscoped().Delete(user)
	})

	const toggles = 16
	errs := make(chan error, toggles)
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.ToggleLike(ctx, user.ID, post.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", post.ID, user.ID).
		Count(&count).Error)
	assert.LessOrEqual(t, count, int64(1))

	// Settle the pair back to zero with sequential toggles.
	liked, _, err := repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	if liked {
		_, likeCount, err := repo.ToggleLike(ctx, user.ID, post.ID)
		require.NoError(t, err)
		assert.Zero(t, likeCount)
	}
}
