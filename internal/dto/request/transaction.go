package request

type CreateTransactionRequest struct {
	Note string `json:"note" validate:"max=500"`
	// CustomerID is required when an admin creates a transaction for a customer.
	CustomerID *string `json:"customer_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateTransactionRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type AddToCartRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
}

type TransactionDetailRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
}
