package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
	"reviewhub/internal/api/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCategoryService mocks the CategoryService interface
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryService) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryService) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func TestCategoryList_Anonymous(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/categories"))

	cats := []models.Category{{ID: 1, Name: "Movies", Slug: "movie"}}
	mockSvc.On("List", mock.Anything, "mov", 1, 20).Return(cats, int64(1), nil)

	req, _ := http.NewRequest("GET", "/categories?search=mov", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.Paginated[dto.CategoryResponse]
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "movie", response.Data[0].Slug)
	mockSvc.AssertExpectations(t)
}

func TestCategoryCreate_BadSlug(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "admin", Role: models.RoleAdmin}))
	handler.RegisterRoutes(router.Group("/categories"))

	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("*models.Category")).
		Return(&validation.Violation{Field: "slug", Message: "slug may only contain letters, digits, hyphens and underscores"})

	body, _ := json.Marshal(dto.CreateCategoryDTO{Name: "Movies", Slug: "mov/ie"})
	req, _ := http.NewRequest("POST", "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slug")
}

func TestCategoryDelete_NonAdmin(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "u1", Role: models.RoleUser}))
	handler.RegisterRoutes(router.Group("/categories"))

	req, _ := http.NewRequest("DELETE", "/categories/movie", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryDelete_Admin(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "admin", Role: models.RoleAdmin}))
	handler.RegisterRoutes(router.Group("/categories"))

	mockSvc.On("Delete", mock.Anything, "movie").Return(nil)

	req, _ := http.NewRequest("DELETE", "/categories/movie", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCategoryDelete_NotFound(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "admin", Role: models.RoleAdmin}))
	handler.RegisterRoutes(router.Group("/categories"))

	mockSvc.On("Delete", mock.Anything, "ghost").Return(service.ErrNotFound)

	req, _ := http.NewRequest("DELETE", "/categories/ghost", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
