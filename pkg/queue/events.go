package queue

import "time"

// Event types published on the transaction queue. The type travels in the
// AMQP "type" property so consumers can route without decoding the body.
const (
	EventTransactionPurchased = "transaction.purchased"
	EventTransactionCancelled = "transaction.cancelled"
)

// TransactionEvent is the JSON body of every transaction event.
type TransactionEvent struct {
	Type               string    `json:"type"`
	TransactionID      string    `json:"transaction_id"`
	TransactionNumber  int64     `json:"transaction_number"`
	ConfirmationNumber *int64    `json:"confirmation_number,omitempty"`
	UserID             string    `json:"user_id"`
	Tickets            int       `json:"tickets"`
	Total              string    `json:"total"`
	OccurredAt         time.Time `json:"occurred_at"`
}
