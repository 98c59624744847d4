package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /api/posts?query=&scope=&category=&page=
// The page size is fixed; the response carries the total match count so
// clients can render page controls.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, _ := s.optionalUserID(c)

	page, err := s.postService.ListPosts(ctx, service.ListPostsInput{
		Query:         c.Query("query"),
		Scope:         c.Query("scope"),
		CategorySlug:  c.Query("category"),
		Page:          c.QueryInt("page", 1),
		CurrentUserID: userID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// TopPosts handles GET /api/posts/top
func (s *Server) TopPosts(c *fiber.Ctx) error {
	posts, err := s.postService.TopLikedPosts(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// Every detail read counts as a view, reloads included.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	if err := s.postService.RecordView(ctx, id); err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.postService.GetPost(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		CategorySlug string `json:"category,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:       userID,
		Title:        req.Title,
		Content:      req.Content,
		CategorySlug: req.CategorySlug,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, userID, postID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
// The endpoint toggles: liking an already-liked post unlikes it.
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.likeService.Toggle(ctx, userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}
