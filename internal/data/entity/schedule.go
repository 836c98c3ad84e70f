package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Theatre string

const (
	Theatre1 Theatre = "theatre_1"
	Theatre2 Theatre = "theatre_2"
)

var Theatres = []Theatre{Theatre1, Theatre2}

type Schedule struct {
	BaseNoDelete
	Theatre    Theatre    `db:"theatre"`
	StartTime  time.Time  `db:"start_time"`
	TicketType TicketType `db:"ticket_type"`
	MovieID    uuid.UUID  `db:"movie_id"`
	PriceID    int        `db:"price_id"`
}

// ScheduleView is a schedule joined with its movie and price rows.
type ScheduleView struct {
	Schedule
	MovieTitle       string          `db:"title"`
	MovieDescription string          `db:"description"`
	MPAARating       MPAARating      `db:"mpaa_rating"`
	RuntimeMinutes   int             `db:"runtime_minutes"`
	TicketPrice      decimal.Decimal `db:"ticket_price"`
}

// EndTime is the start time plus the movie runtime.
func (v *ScheduleView) EndTime() time.Time {
	return v.StartTime.Add(time.Duration(v.RuntimeMinutes) * time.Minute)
}
