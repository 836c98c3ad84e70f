package entity

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	DateOfBirth  *time.Time `db:"date_of_birth"`
	AddressLine1 *string    `db:"address_line1"`
	AddressLine2 *string    `db:"address_line2"`
	City         *string    `db:"city"`
	State        *string    `db:"state"`
	Zip          *string    `db:"zip"`
	Phone        *string    `db:"phone"`
	Role         UserRole   `db:"role"`
	IsActive     bool       `db:"is_active"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
