package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/validation"

	"gorm.io/gorm"
)

// CategoryResolver and GenreResolver are the narrow slices of the
// catalog repos the title service needs for slug references.
type CategoryResolver interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type GenreResolver interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

// TitlePatch carries a partial update; nil fields stay untouched.
type TitlePatch struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, t *models.Title, categorySlug string, genreSlugs []string) (*models.Title, error)
	Update(ctx context.Context, id int64, patch TitlePatch) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	repo       repository.TitleRepository
	categories CategoryResolver
	genres     GenreResolver
}

func NewTitleService(repo repository.TitleRepository, categories CategoryResolver, genres GenreResolver) TitleService {
	return &titleService{repo: repo, categories: categories, genres: genres}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	return s.repo.List(ctx, filter, page, pageSize)
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *titleService) Create(ctx context.Context, t *models.Title, categorySlug string, genreSlugs []string) (*models.Title, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, &validation.Violation{Field: "name", Message: "name required"}
	}
	if err := validation.Year(t.Year); err != nil {
		return nil, err
	}

	cat, err := s.resolveCategory(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	t.CategoryID = &cat.ID

	genres, err := s.resolveGenres(ctx, genreSlugs)
	if err != nil {
		return nil, err
	}
	t.Genres = genres

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, patch TitlePatch) (*models.Title, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, &validation.Violation{Field: "name", Message: "name required"}
		}
		t.Name = name
	}
	if patch.Year != nil {
		if err := validation.Year(*patch.Year); err != nil {
			return nil, err
		}
		t.Year = *patch.Year
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.CategorySlug != nil {
		cat, err := s.resolveCategory(ctx, *patch.CategorySlug)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &cat.ID
	}

	var genres []models.Genre
	if patch.GenreSlugs != nil {
		genres, err = s.resolveGenres(ctx, *patch.GenreSlugs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, t, genres); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	cat, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &validation.Violation{Field: "category", Message: "unknown category slug"}
		}
		return nil, err
	}
	return cat, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &validation.Violation{Field: "genre", Message: "unknown genre slug"}
		}
		return nil, err
	}
	return genres, nil
}
