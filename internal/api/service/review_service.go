package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/validation"

	"gorm.io/gorm"
)

type ReviewService interface {
	// ListByTitle resolves the parent title first; an unknown title is
	// ErrNotFound regardless of pagination.
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	Create(ctx context.Context, titleID int64, author *models.User, text string, score int) (*models.Review, error)
	Update(ctx context.Context, review *models.Review, text *string, score *int) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviewService struct {
	repo      repository.ReviewRepository
	titleRepo repository.TitleRepository
}

func NewReviewService(repo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{repo: repo, titleRepo: titleRepo}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.repo.GetByID(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, titleID int64, author *models.User, text string, score int) (*models.Review, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := validation.Score(score); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByTitleAndAuthor(ctx, titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Text:     text,
		Score:    score,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		// concurrent duplicate caught by the unique index
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	review.Author = *author
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, review *models.Review, text *string, score *int) (*models.Review, error) {
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		if err := validation.Score(*score); err != nil {
			return nil, err
		}
		review.Score = *score
	}
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) resolveTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
