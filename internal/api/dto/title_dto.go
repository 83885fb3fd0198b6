package dto

import (
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

// CreateTitleDTO references category and genres by slug, the way the
// write endpoints address them.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category" binding:"required"`
	Genre       []string `json:"genre"`
}

type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
}

func (in *UpdateTitleDTO) ToPatch() service.TitlePatch {
	return service.TitlePatch{
		Name:         in.Name,
		Year:         in.Year,
		Description:  in.Description,
		CategorySlug: in.Category,
		GenreSlugs:   in.Genre,
	}
}

// TitleResponse carries the derived rating: nil until the title has at
// least one review.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	Genre       []GenreResponse   `json:"genre"`
}

func TitleFromModel(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	return resp
}
