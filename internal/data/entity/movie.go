package entity

import (
	"time"
)

type MPAARating string

const (
	MPAARatingG    MPAARating = "G"
	MPAARatingPG   MPAARating = "PG"
	MPAARatingPG13 MPAARating = "PG-13"
	MPAARatingR    MPAARating = "R"
	MPAARatingNC17 MPAARating = "NC-17"
)

type Movie struct {
	Base
	Title          string     `db:"title"`
	Description    string     `db:"description"`
	MPAARating     MPAARating `db:"mpaa_rating"`
	RuntimeMinutes int        `db:"runtime_minutes"`
	Genre          *string    `db:"genre"`
	ReleaseDate    *time.Time `db:"release_date"`
}

// Runtime returns the running time as a duration.
func (m *Movie) Runtime() time.Duration {
	return time.Duration(m.RuntimeMinutes) * time.Minute
}
