package request

type MovieRequest struct {
	Title          string  `json:"title" validate:"required,min=1,max=200"`
	Description    string  `json:"description" validate:"max=2000"`
	MPAARating     string  `json:"mpaa_rating" validate:"required,oneof=G PG PG-13 R NC-17"`
	RuntimeMinutes int     `json:"runtime_minutes" validate:"required,min=1,max=600"`
	Genre          *string `json:"genre,omitempty" validate:"omitempty,max=50"`
	ReleaseDate    *string `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type MovieUpdateRequest struct {
	Title          *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	MPAARating     *string `json:"mpaa_rating,omitempty" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
	RuntimeMinutes *int    `json:"runtime_minutes,omitempty" validate:"omitempty,min=1,max=600"`
	Genre          *string `json:"genre,omitempty" validate:"omitempty,max=50"`
	ReleaseDate    *string `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
