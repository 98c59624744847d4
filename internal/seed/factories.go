package seed

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		r:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildPost constructs a post with a created_at spread over the recent past
// but does not persist it.
func (f *Factory) BuildPost(user *models.User, category *models.Category) *models.Post {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(2, 4, 8, "\n"),
		UserID:    user.ID,
		CreatedAt: randomPastTime(f.r, f.opts.MaxDays),
	}
	if category != nil {
		post.CategoryID = &category.ID
	}
	return post
}

// CreatePosts persists n posts spread across the given users. Roughly one in
// five posts is left uncategorized.
func (f *Factory) CreatePosts(users []*models.User, categories []*models.Category, n int) ([]*models.Post, error) {
	if n <= 0 {
		n = 30
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		user := users[f.r.Intn(len(users))]
		var category *models.Category
		if len(categories) > 0 && f.r.Intn(5) != 0 {
			category = categories[f.r.Intn(len(categories))]
		}
		post := f.BuildPost(user, category)
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CreateThreads attaches comment threads to about half the posts: a few
// top-level comments each, some with replies, and roughly one parent in ten
// tombstoned to exercise the placeholder path.
func (f *Factory) CreateThreads(users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		if f.r.Intn(2) == 0 {
			continue
		}

		numRoots := 1 + f.r.Intn(3)
		for i := 0; i < numRoots; i++ {
			root := &models.Comment{
				Content: gofakeit.Sentence(8 + f.r.Intn(10)),
				PostID:  post.ID,
				UserID:  users[f.r.Intn(len(users))].ID,
			}
			if err := f.db.Create(root).Error; err != nil {
				return total, err
			}
			total++

			numReplies := f.r.Intn(3)
			for j := 0; j < numReplies; j++ {
				parentID := root.ID
				reply := &models.Comment{
					Content:  gofakeit.Sentence(5 + f.r.Intn(8)),
					PostID:   post.ID,
					UserID:   users[f.r.Intn(len(users))].ID,
					ParentID: &parentID,
				}
				if err := f.db.Create(reply).Error; err != nil {
					return total, err
				}
				total++
			}

			// Tombstone some parents that have replies.
			if numReplies > 0 && f.r.Intn(10) == 0 {
				if err := f.db.Model(root).Updates(map[string]any{
					"content":    models.TombstonePlaceholder,
					"tombstoned": true,
				}).Error; err != nil {
					return total, err
				}
			}
		}
	}
	return total, nil
}

// CreateLikes fans likes out over the posts. Each (user, post) pair is used
// at most once, matching the ledger's unique index.
func (f *Factory) CreateLikes(users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		numLikes := f.r.Intn(len(users) + 1)
		for _, idx := range f.r.Perm(len(users))[:numLikes] {
			like := &models.Like{UserID: users[idx].ID, PostID: post.ID}
			if err := f.db.Create(like).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

// slugForSeed matches the API's slug rules: lowercase, non-alphanumeric runs
// folded to hyphens, at most 15 characters.
func slugForSeed(name string) string {
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
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 15 {
		cut := 15
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}
		slug = strings.TrimRight(slug[:cut], "-")
	}
	return slug
}
