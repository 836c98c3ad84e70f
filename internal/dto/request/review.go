package request

type CreateReviewRequest struct {
	MovieID     string `json:"movie_id" validate:"required,uuid"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved needs_review"`
}
