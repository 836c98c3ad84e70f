package usecase

import (
	"fmt"
	"time"

	"movie-ticketing/internal/data/entity"
)

// priceIDs is the fixed ticket type to price row mapping.
var priceIDs = map[entity.TicketType]int{
	entity.TicketTypeWeekdayBase:     1,
	entity.TicketTypeMatinee:         2,
	entity.TicketTypeDiscountTuesday: 3,
	entity.TicketTypeWeekends:        4,
	entity.TicketTypeSpecialEvent:    5,
}

// ResolvePriceID returns the price id for ticketType. An unmapped type keeps
// current unchanged.
func ResolvePriceID(ticketType entity.TicketType, current int) int {
	if id, ok := priceIDs[ticketType]; ok {
		return id
	}
	return current
}

// GapRules bounds the spacing of showtimes within one theatre.
type GapRules struct {
	// MinGap is the least time between the end of the previous showtime and
	// the start of the next one.
	MinGap time.Duration
	// MaxGap is the most time between a showtime's start and the start of
	// the following showtime.
	MaxGap time.Duration
}

func NewGapRules(minMinutes, maxMinutes int) GapRules {
	return GapRules{
		MinGap: time.Duration(minMinutes) * time.Minute,
		MaxGap: time.Duration(maxMinutes) * time.Minute,
	}
}

// Check validates a candidate start time against its neighbours in the same
// theatre. prev and next may be nil. All violations are collected under
// "start_time".
func (g GapRules) Check(start time.Time, prev, next *entity.ScheduleView) *ValidationError {
	errs := NewValidationError()

	if prev != nil && start.Before(prev.EndTime().Add(g.MinGap)) {
		errs.Add("start_time", fmt.Sprintf(
			"There must be at least %d minutes between movies. %s ends at %s.",
			int(g.MinGap.Minutes()), prev.MovieTitle, prev.EndTime().Format("15:04")))
	}

	if next != nil && next.StartTime.Sub(start) > g.MaxGap {
		errs.Add("start_time", fmt.Sprintf(
			"There should not be more than %d minutes between movies. %s starts at %s.",
			int(g.MaxGap.Minutes()), next.MovieTitle, next.StartTime.Format("15:04")))
	}

	return errs
}
