package request

type RegisterRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=50"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6,max=72"`
	FirstName    string  `json:"first_name" validate:"required,max=100"`
	LastName     string  `json:"last_name" validate:"required,max=100"`
	DateOfBirth  string  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	AddressLine1 string  `json:"address_line1" validate:"required,max=200"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	State        string  `json:"state" validate:"required,max=50"`
	Zip          string  `json:"zip" validate:"required,max=20"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

// LoginRequest accepts either the username or the email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName    *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	DateOfBirth  *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AddressLine1 *string `json:"address_line1,omitempty" validate:"omitempty,min=1,max=200"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         *string `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,min=1,max=50"`
	Zip          *string `json:"zip,omitempty" validate:"omitempty,min=1,max=20"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}
