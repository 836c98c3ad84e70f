package entity

import (
	"github.com/google/uuid"
)

type ReviewStatus string

const (
	ReviewStatusApproved    ReviewStatus = "approved"
	ReviewStatusNeedsReview ReviewStatus = "needs_review"
)

type Review struct {
	BaseNoDelete
	UserID      uuid.UUID    `db:"user_id"`
	MovieID     uuid.UUID    `db:"movie_id"`
	Rating      int          `db:"rating"` // 1-5
	Description string       `db:"description"`
	Status      ReviewStatus `db:"status"`
}

// ReviewView adds the author and movie names.
type ReviewView struct {
	Review
	Username   string `db:"username"`
	MovieTitle string `db:"title"`
}
