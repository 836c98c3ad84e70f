package request

// ScheduleTimeLayout is the wire format of schedule start times (theatre local time).
const ScheduleTimeLayout = "2006-01-02T15:04"

type ScheduleRequest struct {
	Theatre    string `json:"theatre" validate:"required,oneof=theatre_1 theatre_2"`
	StartTime  string `json:"start_time" validate:"required,datetime=2006-01-02T15:04"`
	TicketType string `json:"ticket_type" validate:"required,oneof=weekday_base matinee discount_tuesday weekends special_event"`
	MovieID    string `json:"movie_id" validate:"required,uuid"`
}

// ScheduleFilterRequest mirrors the query string of GET /api/schedules.
type ScheduleFilterRequest struct {
	MovieID    string `json:"movie_id" validate:"omitempty,uuid"`
	Theatre    string `json:"theatre" validate:"omitempty,oneof=theatre_1 theatre_2"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Search     string `json:"search" validate:"max=200"`
	MPAARating string `json:"mpaa_rating" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
}
