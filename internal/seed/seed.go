// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
}

var categoryNames = []string{
	"Go", "Databases", "Web Development", "DevOps", "Cloud",
	"Testing", "Architecture", "Career", "Tooling", "Performance",
}

// Seed populates the database with demo data: users, categories, posts with a
// realistic timestamp spread, comment threads (some tombstoned) and a like
// fan-out.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("✓ %d categories available", len(categories))

	f := NewFactory(db, opts)
	posts, err := f.CreatePosts(users, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	comments, err := f.CreateThreads(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comment threads: %w", err)
	}
	log.Printf("✓ %d comments created", comments)

	likes, err := f.CreateLikes(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", likes)

	log.Println("🌱 Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Children first to keep FK-ordered deletes happy.
	for _, table := range []string{"likes", "comments", "posts", "categories", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	if n <= 0 {
		n = 10
	}
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName: gofakeit.Name(),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := &models.Category{Name: name, Slug: slugForSeed(name)}
		// Idempotent across repeated seed runs.
		if err := db.Where("slug = ?", category.Slug).
			FirstOrCreate(category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func randomPastTime(r *rand.Rand, maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)
}
