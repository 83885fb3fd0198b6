package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows the title listing. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	// Count and Find each get a fresh chain; sharing one would leak the
	// Count's narrowed select into the row query.
	if err := r.filtered(ctx, filter).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.filtered(ctx, filter).
		Select("titles.*").
		Distinct().
		Preload("Category").
		Preload("Genres").
		Order("titles.name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}

	if err := r.attachRatings(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// filtered builds a base title query with the filter's joins and
// predicates applied.
func (r *titleRepository) filtered(ctx context.Context, filter TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})

	if filter.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		q = q.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		q = q.Where("titles.year = ?", filter.Year)
	}
	return q
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&t, id).Error; err != nil {
		return nil, err
	}

	one := []models.Title{t}
	if err := r.attachRatings(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *titleRepository) Create(ctx context.Context, t *models.Title) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

// Update saves scalar fields and, when genres is non-nil, replaces the
// genre association wholesale.
func (r *titleRepository) Update(ctx context.Context, t *models.Title, genres []models.Genre) error {
	tx := r.db.WithContext(ctx)
	if err := translate(tx.Omit("Genres").Save(t).Error); err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	if genres != nil {
		if err := tx.Model(t).Association("Genres").Replace(genres); err != nil {
			return fmt.Errorf("replace title genres: %w", err)
		}
	}
	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// attachRatings fills the derived Rating field with one aggregate query
// for the whole page. Titles without reviews keep a nil rating.
func (r *titleRepository) attachRatings(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}

	var rows []struct {
		TitleID int64
		Avg     float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score) as avg").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}

	byTitle := make(map[int64]float64, len(rows))
	for _, row := range rows {
		byTitle[row.TitleID] = row.Avg
	}
	for i := range titles {
		if avg, ok := byTitle[titles[i].ID]; ok {
			v := avg
			titles[i].Rating = &v
		}
	}
	return nil
}
