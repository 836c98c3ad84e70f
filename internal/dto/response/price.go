package response

import (
	"movie-ticketing/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PriceResponse struct {
	ID          int               `json:"id"`
	TicketType  entity.TicketType `json:"ticket_type"`
	TicketPrice decimal.Decimal   `json:"ticket_price"`
}

func PriceToResponse(price *entity.Price) PriceResponse {
	return PriceResponse{
		ID:          price.ID,
		TicketType:  price.TicketType,
		TicketPrice: price.TicketPrice,
	}
}
