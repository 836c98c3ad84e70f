package response

import (
	"time"

	"movie-ticketing/internal/data/entity"

	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID                 string                      `json:"id"`
	TransactionNumber  int64                       `json:"transaction_number"`
	ConfirmationNumber *int64                      `json:"confirmation_number,omitempty"`
	TransactionDate    time.Time                   `json:"transaction_date"`
	Note               string                      `json:"note"`
	Status             entity.TransactionStatus    `json:"status"`
	UserID             string                      `json:"user_id"`
	Details            []TransactionDetailResponse `json:"details,omitempty"`
	TicketCount        int                         `json:"ticket_count"`
	Total              decimal.Decimal             `json:"total"`
}

type TransactionDetailResponse struct {
	ID            string            `json:"id"`
	TransactionID string            `json:"transaction_id"`
	ScheduleID    string            `json:"schedule_id"`
	SchedulePrice decimal.Decimal   `json:"schedule_price"`
	Theatre       entity.Theatre    `json:"theatre"`
	StartTime     time.Time         `json:"start_time"`
	TicketType    entity.TicketType `json:"ticket_type"`
	MovieID       string            `json:"movie_id"`
	MovieTitle    string            `json:"movie_title"`
}

func TransactionDetailToResponse(view *entity.TransactionDetailView) TransactionDetailResponse {
	return TransactionDetailResponse{
		ID:            view.ID.String(),
		TransactionID: view.TransactionID.String(),
		ScheduleID:    view.ScheduleID.String(),
		SchedulePrice: view.SchedulePrice,
		Theatre:       view.Theatre,
		StartTime:     view.StartTime,
		TicketType:    view.TicketType,
		MovieID:       view.MovieID.String(),
		MovieTitle:    view.MovieTitle,
	}
}

// TransactionToResponse totals the captured ticket prices. details may be nil
// for list views, in which case no total is computed.
func TransactionToResponse(txn *entity.Transaction, details []*entity.TransactionDetailView) TransactionResponse {
	resp := TransactionResponse{
		ID:                 txn.ID.String(),
		TransactionNumber:  txn.TransactionNumber,
		ConfirmationNumber: txn.ConfirmationNumber,
		TransactionDate:    txn.TransactionDate,
		Note:               txn.Note,
		Status:             txn.Status,
		UserID:             txn.UserID.String(),
		Total:              decimal.Zero,
	}

	for _, d := range details {
		resp.Details = append(resp.Details, TransactionDetailToResponse(d))
		resp.Total = resp.Total.Add(d.SchedulePrice)
	}
	resp.TicketCount = len(details)

	return resp
}
