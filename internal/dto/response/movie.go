package response

import (
	"time"

	"movie-ticketing/internal/data/entity"
)

type MovieResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	MPAARating     entity.MPAARating `json:"mpaa_rating"`
	RuntimeMinutes int               `json:"runtime_minutes"`
	Genre          *string           `json:"genre,omitempty"`
	ReleaseDate    *string           `json:"release_date,omitempty"`
}

type MovieDetailResponse struct {
	MovieResponse
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	resp := MovieResponse{
		ID:             movie.ID.String(),
		Title:          movie.Title,
		Description:    movie.Description,
		MPAARating:     movie.MPAARating,
		RuntimeMinutes: movie.RuntimeMinutes,
		Genre:          movie.Genre,
	}
	if movie.ReleaseDate != nil {
		date := movie.ReleaseDate.Format(time.DateOnly)
		resp.ReleaseDate = &date
	}
	return resp
}

func MovieToDetailResponse(movie *entity.Movie, avgRating float64, reviewCount int64) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		AverageRating: avgRating,
		ReviewCount:   reviewCount,
		CreatedAt:     movie.CreatedAt,
		UpdatedAt:     movie.UpdatedAt,
	}
}
