// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// SearchScope selects which field a feed text query matches against.
type SearchScope string

const (
	ScopeTitle   SearchScope = "title"
	ScopeContent SearchScope = "content"
	ScopeAuthor  SearchScope = "author"
)

// PostFilter narrows the feed query. Query is a case-insensitive substring
// match against the field named by Scope; a query with an empty or
// unrecognized scope applies no text filter at all. CategorySlug, when set,
// restricts to posts whose category slug matches exactly.
type PostFilter struct {
	Query        string
	Scope        SearchScope
	CategorySlug string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int, currentUserID uint) ([]*models.Post, int64, error)
	TopLiked(ctx context.Context, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (liked bool, likeCount int64, err error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if currentUserID == 0 {
		// Anonymous reads share one cache entry; authenticated reads carry a
		// per-viewer Liked flag and always hit the database.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				Preload("Category").
				First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Category").
			First(&post, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int, currentUserID uint) ([]*models.Post, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.applyPostDetails(
		r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter),
		currentUserID,
	).
		Preload("User").
		Preload("Category").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// TopLiked returns posts ordered by live like count descending, newest first
// among ties. likes_count is a SELECT alias from applyPostDetails; PostgreSQL
// allows referencing it in ORDER BY within the same query level.
func (r *postRepository) TopLiked(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), 0).
		Preload("User").
		Preload("Category").
		Order("likes_count DESC, posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// applyFilter appends the feed WHERE clauses for the given filter.
func (r *postRepository) applyFilter(db *gorm.DB, f PostFilter) *gorm.DB {
	if f.CategorySlug != "" {
		db = db.
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.Query == "" {
		return db
	}
	like := "%" + f.Query + "%"
	switch f.Scope {
	case ScopeTitle:
		db = db.Where("posts.title ILIKE ?", like)
	case ScopeContent:
		db = db.Where("posts.content ILIKE ?", like)
	case ScopeAuthor:
		db = db.
			Joins("JOIN users ON users.id = posts.user_id").
			Where("users.username ILIKE ?", like)
	}
	return db
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
// Counts are recomputed per query, never cached in the posts row.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// IncrementViewCount applies a storage-level atomic increment so concurrent
// views never lose updates. Deliberately not idempotent: every call counts.
func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}

// ToggleLike flips the (user, post) like state in a single transaction:
// delete-if-present, else INSERT .. ON CONFLICT DO NOTHING. The unique
// composite index on likes enforces at-most-one record per pair; the returned
// count is recomputed from ledger state inside the same transaction.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postCount int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&postCount).Error; err != nil {
			return err
		}
		if postCount == 0 {
			return models.NewNotFoundError("Post", postID)
		}

		res := tx.Exec(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Not currently liked. ON CONFLICT DO NOTHING absorbs the race
			// where a concurrent toggle by the same user inserted first; an
			// absorbed insert changed nothing, so it reports unliked.
			ins := tx.Exec(
				`INSERT INTO likes (user_id, post_id, created_at) `+
					`VALUES (?, ?, NOW()) ON CONFLICT (user_id, post_id) DO NOTHING`,
				userID, postID,
			)
			if ins.Error != nil {
				return ins.Error
			}
			liked = ins.RowsAffected > 0
		}

		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.Invalidate(ctx, cache.PostKey(postID))
	return liked, count, nil
}
