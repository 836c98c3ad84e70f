package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketType string

const (
	TicketTypeWeekdayBase     TicketType = "weekday_base"
	TicketTypeMatinee         TicketType = "matinee"
	TicketTypeDiscountTuesday TicketType = "discount_tuesday"
	TicketTypeWeekends        TicketType = "weekends"
	TicketTypeSpecialEvent    TicketType = "special_event"
)

// Price ids are fixed; schedules reference them through the ticket type.
type Price struct {
	ID          int             `db:"id"`
	TicketType  TicketType      `db:"ticket_type"`
	TicketPrice decimal.Decimal `db:"ticket_price"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
