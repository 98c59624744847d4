package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix   = "post:%d"
	threadKeyPrefix = "post:%d:thread"
)

const (
	// PostTTL bounds staleness for anonymous post-detail reads. Writes that
	// change a post's annotations (likes, comments, views) invalidate the
	// key eagerly, so the TTL is only a backstop.
	PostTTL   = 30 * time.Minute
	ThreadTTL = 2 * time.Minute
)

// PostKey is the cache key for a post detail record.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// ThreadKey is the cache key for a post's comment thread.
func ThreadKey(postID uint) string {
	return fmt.Sprintf(threadKeyPrefix, postID)
}

// Invalidate removes a single key. Best-effort; a nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached detail and thread for a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, ThreadKey(postID))
}
