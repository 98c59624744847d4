package service

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type LikeService struct {
	postRepo repository.PostRepository
}

// LikeResult reports the post-toggle state: whether the caller now likes the
// post and the fresh total recomputed from the ledger.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

func NewLikeService(postRepo repository.PostRepository) *LikeService {
	return &LikeService{postRepo: postRepo}
}

// Toggle flips the caller's like on the post. Liking twice in a row unlikes;
// both legs run atomically in the repository so a rapid double toggle settles
// on a consistent state rather than a duplicate record.
func (s *LikeService) Toggle(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if userID == 0 {
		return nil, models.NewUnauthenticatedError("authentication required")
	}

	liked, count, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	middleware.LikeToggles.WithLabelValues(state).Inc()

	return &LikeResult{Liked: liked, LikeCount: count}, nil
}
