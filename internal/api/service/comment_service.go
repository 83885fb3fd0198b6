package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment, text string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentService struct {
	repo       repository.CommentRepository
	reviewRepo repository.ReviewRepository
}

func NewCommentService(repo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{repo: repo, reviewRepo: reviewRepo}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByReview(ctx, reviewID, page, pageSize)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.repo.GetByID(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Text:     text,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, comment *models.Comment, text string) (*models.Comment, error) {
	comment.Text = text
	if err := s.repo.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// resolveReview checks the parent chain: the review must exist and hang
// off the title named in the path.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
