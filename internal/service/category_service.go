package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/google/uuid"
)

const (
	maxCategoryNameLen = 80
	maxSlugLen         = 15
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	UserID uint
	Name   string
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory derives the slug from the name. On a slug collision the
// slug gets a short random suffix; a simultaneous insert of the same name
// still surfaces as a conflict from the unique index.
func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthenticatedError("authentication required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Category name is required")
	}
	if len(name) > maxCategoryNameLen {
		return nil, models.NewValidationError("Category name too long (max 80 characters)")
	}

	slug := slugify(name, maxSlugLen)
	if slug == "" {
		return nil, models.NewValidationError("Category name must contain letters or digits")
	}

	taken, err := s.categoryRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		slug = withSuffix(slug, uuid.NewString()[:4], maxSlugLen)
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

// slugify lowercases the name, folds every run of non-alphanumerics into a
// single hyphen, and truncates to maxLen without leaving a trailing hyphen.
func slugify(name string, maxLen int) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return truncateSlug(strings.Trim(b.String(), "-"), maxLen)
}

// withSuffix appends "-suffix", shortening the base so the result still fits.
func withSuffix(slug, suffix string, maxLen int) string {
	return truncateSlug(slug, maxLen-len(suffix)-1) + "-" + suffix
}

// truncateSlug cuts the slug to at most maxLen bytes without splitting a rune,
// then drops any hyphen left dangling at the end.
func truncateSlug(slug string, maxLen int) string {
	if len(slug) <= maxLen {
		return slug
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(slug[cut]) {
		cut--
	}
	return strings.TrimRight(slug[:cut], "-")
}
