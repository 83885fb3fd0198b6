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
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTitleService mocks the TitleService interface
type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, t *models.Title, categorySlug string, genreSlugs []string) (*models.Title, error) {
	args := m.Called(ctx, t, categorySlug, genreSlugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, patch service.TitlePatch) (*models.Title, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// asActor injects an authenticated user the way the auth middleware
// would.
func asActor(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set("actor", user)
		}
		c.Next()
	}
}

func TestTitleList_Anonymous(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/titles"))

	rating := 7.5
	titles := []models.Title{{ID: 1, Name: "The Piece", Year: 1994, Rating: &rating}}
	mockSvc.On("List", mock.Anything, repository.TitleFilter{CategorySlug: "movie"}, 1, 20).
		Return(titles, int64(1), nil)

	req, _ := http.NewRequest("GET", "/titles?category=movie", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.Paginated[dto.TitleResponse]
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "The Piece", response.Data[0].Name)
	assert.NotNil(t, response.Data[0].Rating)
	assert.Equal(t, 7.5, *response.Data[0].Rating)
	mockSvc.AssertExpectations(t)
}

func TestTitleGet_RatingNullWithoutReviews(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/titles"))

	mockSvc.On("Get", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Fresh", Year: 2001}, nil)

	req, _ := http.NewRequest("GET", "/titles/1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	rating, present := response["rating"]
	assert.True(t, present)
	assert.Nil(t, rating)
}

func TestTitleCreate_Anonymous(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/titles"))

	body, _ := json.Marshal(dto.CreateTitleDTO{Name: "New", Year: 2001, Category: "movie"})
	req, _ := http.NewRequest("POST", "/titles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleCreate_NonAdmin(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "u1", Role: models.RoleModerator}))
	handler.RegisterRoutes(router.Group("/titles"))

	body, _ := json.Marshal(dto.CreateTitleDTO{Name: "New", Year: 2001, Category: "movie"})
	req, _ := http.NewRequest("POST", "/titles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleCreate_Admin(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "u1", Role: models.RoleAdmin}))
	handler.RegisterRoutes(router.Group("/titles"))

	created := &models.Title{ID: 5, Name: "New", Year: 2001}
	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("*models.Title"), "movie", []string{"drama"}).
		Return(created, nil)

	body, _ := json.Marshal(dto.CreateTitleDTO{Name: "New", Year: 2001, Category: "movie", Genre: []string{"drama"}})
	req, _ := http.NewRequest("POST", "/titles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTitleDelete_Admin(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "u1", Role: models.RoleAdmin}))
	handler.RegisterRoutes(router.Group("/titles"))

	mockSvc.On("Delete", mock.Anything, int64(5)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/5", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTitleDelete_NotFound(t *testing.T) {
	mockSvc := new(MockTitleService)
	handler := NewTitleHandler(mockSvc)
	router := setupRouter()
	router.Use(asActor(&models.User{ID: "u1", Role: models.RoleAdmin}))
	handler.RegisterRoutes(router.Group("/titles"))

	mockSvc.On("Delete", mock.Anything, int64(99)).Return(service.ErrNotFound)

	req, _ := http.NewRequest("DELETE", "/titles/99", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
