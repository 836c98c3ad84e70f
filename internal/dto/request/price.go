package request

import "github.com/shopspring/decimal"

type UpdatePriceRequest struct {
	TicketPrice *decimal.Decimal `json:"ticket_price" validate:"required"`
}
