package response

import (
	"time"

	"movie-ticketing/internal/data/entity"
)

type ReviewResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Username    string              `json:"username,omitempty"`
	MovieID     string              `json:"movie_id"`
	MovieTitle  string              `json:"movie_title,omitempty"`
	Rating      int                 `json:"rating"`
	Description string              `json:"description"`
	Status      entity.ReviewStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func ReviewToResponse(review *entity.Review, username, movieTitle string) ReviewResponse {
	return ReviewResponse{
		ID:          review.ID.String(),
		UserID:      review.UserID.String(),
		Username:    username,
		MovieID:     review.MovieID.String(),
		MovieTitle:  movieTitle,
		Rating:      review.Rating,
		Description: review.Description,
		Status:      review.Status,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
}

func ReviewViewToResponse(view *entity.ReviewView) ReviewResponse {
	return ReviewToResponse(&view.Review, view.Username, view.MovieTitle)
}
