package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPurchased TransactionStatus = "purchased"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type Transaction struct {
	BaseNoDelete
	TransactionNumber  int64             `db:"transaction_number"`
	ConfirmationNumber *int64            `db:"confirmation_number"`
	TransactionDate    time.Time         `db:"transaction_date"`
	Note               string            `db:"note"`
	Status             TransactionStatus `db:"status"`
	UserID             uuid.UUID         `db:"user_id"`
}

func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// TransactionDetail is one ticket line inside a transaction.
type TransactionDetail struct {
	BaseNoDelete
	TransactionID uuid.UUID       `db:"transaction_id"`
	ScheduleID    uuid.UUID       `db:"schedule_id"`
	SchedulePrice decimal.Decimal `db:"schedule_price"`
}

// TransactionDetailView carries the schedule and movie columns for display.
type TransactionDetailView struct {
	TransactionDetail
	Theatre    Theatre    `db:"theatre"`
	StartTime  time.Time  `db:"start_time"`
	TicketType TicketType `db:"ticket_type"`
	MovieID    uuid.UUID  `db:"movie_id"`
	MovieTitle string     `db:"title"`
}
