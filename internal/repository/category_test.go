package repository

import (
	"context"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCategoryRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "categories"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.Create(ctx, &models.Category{Name: "Go", Slug: "go"})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unique Violation Becomes Conflict", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "categories"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_categories_slug"})
		mock.ExpectRollback()

		err := repo.Create(ctx, &models.Category{Name: "Go", Slug: "go"})
		assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_SlugExists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "categories"`)).
		WithArgs("go").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.SlugExists(ctx, "go")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
