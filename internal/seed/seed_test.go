package seed

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"inkwell/internal/models"
)

func TestSlugForSeed(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go", "go"},
		{"Web Development", "web-development"},
		{"Performance", "performance"},
	}
	for _, tt := range tests {
		got := slugForSeed(tt.in)
		if got != tt.want {
			t.Fatalf("slugForSeed(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(got) > 15 {
			t.Fatalf("slug %q exceeds 15 characters", got)
		}
	}

	for _, name := range categoryNames {
		if len(slugForSeed(name)) > 15 {
			t.Fatalf("category %q slug exceeds 15 characters", name)
		}
	}
}

func TestBuildPost_TimestampSpread(t *testing.T) {
	f := NewFactory(nil, Options{MaxDays: 30})
	user := &models.User{ID: 1}

	for i := 0; i < 20; i++ {
		p := f.BuildPost(user, nil)
		if p.Title == "" || p.Content == "" {
			t.Fatalf("post %d missing title or content", i)
		}
		if p.CreatedAt.After(time.Now()) {
			t.Fatalf("created_at in the future: %v", p.CreatedAt)
		}
		if time.Since(p.CreatedAt) > 31*24*time.Hour {
			t.Fatalf("created_at too old: %v", p.CreatedAt)
		}
		if strings.TrimSpace(p.Content) == "" {
			t.Fatalf("post %d has blank content", i)
		}
	}
}

func TestRandomPastTime_DefaultsWhenUnset(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	ts := randomPastTime(r, 0)
	if time.Since(ts) > 91*24*time.Hour {
		t.Fatalf("timestamp outside default range: %v", ts)
	}
}
