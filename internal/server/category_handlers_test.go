package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCategoryTestServer(repo *MockCategoryRepository) *Server {
	s := &Server{}
	s.categoryService = service.NewCategoryService(repo)
	return s
}

func TestGetCategories(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockCategoryRepository)
	s := newCategoryTestServer(mockRepo)
	app.Get("/categories", s.GetCategories)

	mockRepo.On("List", mock.Anything).Return([]*models.Category{
		{ID: 1, Name: "Go", Slug: "go"},
		{ID: 2, Name: "Web Development", Slug: "web-development"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 2)
	mockRepo.AssertExpectations(t)
}

func TestCreateCategory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockCategoryRepository)
		s := newCategoryTestServer(mockRepo)
		app.Use(authAs(1))
		app.Post("/categories", s.CreateCategory)

		mockRepo.On("SlugExists", mock.Anything, "go").Return(false, nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]string{"name": "Go"})
		req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Name Conflicts", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockCategoryRepository)
		s := newCategoryTestServer(mockRepo)
		app.Use(authAs(1))
		app.Post("/categories", s.CreateCategory)

		mockRepo.On("SlugExists", mock.Anything, "go").Return(false, nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).
			Return(models.NewConflictError("category already exists", nil))

		body, _ := json.Marshal(map[string]string{"name": "Go"})
		req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}
