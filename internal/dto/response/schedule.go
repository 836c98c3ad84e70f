package response

import (
	"time"

	"movie-ticketing/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ScheduleResponse struct {
	ID          string            `json:"id"`
	Theatre     entity.Theatre    `json:"theatre"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	TicketType  entity.TicketType `json:"ticket_type"`
	PriceID     int               `json:"price_id"`
	TicketPrice decimal.Decimal   `json:"ticket_price"`
	Movie       ScheduleMovie     `json:"movie"`
}

type ScheduleMovie struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	MPAARating     entity.MPAARating `json:"mpaa_rating"`
	RuntimeMinutes int               `json:"runtime_minutes"`
}

// ScheduleIndexResponse is the showtime listing with its filter metadata.
type ScheduleIndexResponse struct {
	Schedules      []ScheduleResponse `json:"schedules"`
	TheatreOptions []entity.Theatre   `json:"theatre_options"`
	TotalCount     int64              `json:"total_count"`
	FilteredCount  int                `json:"filtered_count"`
}

func ScheduleToResponse(view *entity.ScheduleView) ScheduleResponse {
	return ScheduleResponse{
		ID:          view.ID.String(),
		Theatre:     view.Theatre,
		StartTime:   view.StartTime,
		EndTime:     view.EndTime(),
		TicketType:  view.TicketType,
		PriceID:     view.PriceID,
		TicketPrice: view.TicketPrice,
		Movie: ScheduleMovie{
			ID:             view.MovieID.String(),
			Title:          view.MovieTitle,
			Description:    view.MovieDescription,
			MPAARating:     view.MPAARating,
			RuntimeMinutes: view.RuntimeMinutes,
		},
	}
}
