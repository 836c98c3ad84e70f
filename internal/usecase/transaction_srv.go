package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/dto/response"
	"movie-ticketing/pkg/queue"
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCartAttempts = 2

type TransactionService interface {
	GetTransactions(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error)
	GetTransactionByID(ctx context.Context, actor Actor, transactionID string) (*response.TransactionResponse, error)
	CreateTransaction(ctx context.Context, actor Actor, req *request.CreateTransactionRequest) (*response.TransactionResponse, error)
	UpdateTransaction(ctx context.Context, actor Actor, transactionID string, req *request.UpdateTransactionRequest) (*response.TransactionResponse, error)
	AddToCart(ctx context.Context, actor Actor, req *request.AddToCartRequest) (*response.TransactionResponse, error)
	Checkout(ctx context.Context, actor Actor, transactionID string) (*response.TransactionResponse, error)
	Cancel(ctx context.Context, actor Actor, transactionID string) (*response.TransactionResponse, error)
}

type transactionService struct {
	repo      *repository.Repository
	ticket    utils.TicketConfig
	publisher queue.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewTransactionService(
	repo *repository.Repository,
	config *utils.Config,
	publisher queue.Publisher,
	log *zap.Logger,
) TransactionService {
	return &transactionService{
		repo:      repo,
		ticket:    config.Ticket,
		publisher: publisher,
		log:       log.With(zap.String("service", "transaction")),
		now:       time.Now,
	}
}

func (s *transactionService) GetTransactions(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error) {
	var owner *uuid.UUID
	if !actor.IsAdmin() {
		owner = &actor.UserID
	}

	txns, err := s.repo.Transaction.FindAll(ctx, owner, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get transactions", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, fmt.Errorf("get transactions: %w", err)
	}

	total, err := s.repo.Transaction.CountAll(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	data := make([]response.TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		details, err := s.repo.TransactionDetail.FindByTransactionID(ctx, txn.ID)
		if err != nil {
			return nil, fmt.Errorf("get transaction details: %w", err)
		}
		data = append(data, response.TransactionToResponse(txn, details))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, actor Actor, transactionID string) (*response.TransactionResponse, error) {
	txn, err := findOwnedTransaction(ctx, s.repo, actor, transactionID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, txn)
}

func (s *transactionService) CreateTransaction(ctx context.Context, actor Actor, req *request.CreateTransactionRequest) (*response.TransactionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	ownerID, err := s.resolveOwner(ctx, actor, req.CustomerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txn := &entity.Transaction{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		TransactionDate: now,
		Note:            req.Note,
		Status:          entity.TransactionStatusPending,
		UserID:          ownerID,
	}

	if err := s.repo.Transaction.Create(ctx, txn, s.ticket.TransactionNumberSeed); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.log.Info("Transaction opened",
		zap.String("transaction_id", txn.ID.String()),
		zap.Int64("transaction_number", txn.TransactionNumber),
		zap.String("user_id", ownerID.String()),
		zap.String("by", actor.UserID.String()))

	resp := response.TransactionToResponse(txn, nil)
	return &resp, nil
}

// resolveOwner picks the account a new transaction belongs to. Admins must
// name a customer; customers always buy for themselves.
func (s *transactionService) resolveOwner(ctx context.Context, actor Actor, customerID *string) (uuid.UUID, error) {
	if !actor.IsAdmin() {
		if customerID != nil && *customerID != actor.UserID.String() {
			return uuid.Nil, fmt.Errorf("forbidden: customers can only open their own transactions")
		}
		return actor.UserID, nil
	}

	if customerID == nil || *customerID == "" {
		v := NewValidationError()
		v.Add("customer_id", "This field is required")
		return uuid.Nil, v
	}

	id, err := uuid.Parse(*customerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid customer ID")
	}

	customer, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return uuid.Nil, fmt.Errorf("customer not found")
	}
	if customer.Role != entity.RoleCustomer {
		return uuid.Nil, fmt.Errorf("invalid customer_id: %s is not a customer account", customer.Username)
	}
	if !customer.IsActive {
		return uuid.Nil, fmt.Errorf("cannot open a transaction for a deactivated account")
	}

	return customer.ID, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, actor Actor, transactionID string, req *request.UpdateTransactionRequest) (*response.TransactionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	txn, err := findOwnedTransaction(ctx, s.repo, actor, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return nil, fmt.Errorf("cannot edit a %s transaction", txn.Status)
	}

	now := s.now()
	if err := s.repo.Transaction.UpdateNote(ctx, txn.ID, req.Note, now); err != nil {
		return nil, s.conflictError(ctx, txn.ID, "edit", err)
	}

	txn.Note = req.Note
	txn.UpdatedAt = now
	return s.buildResponse(ctx, txn)
}

func (s *transactionService) AddToCart(ctx context.Context, actor Actor, req *request.AddToCartRequest) (*response.TransactionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	schedule, err := findPricedSchedule(ctx, s.repo, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for attempt := 1; ; attempt++ {
		txn, created, err := s.repo.Transaction.FindOrCreatePending(ctx, actor.UserID, s.ticket.TransactionNumberSeed, now)
		if err != nil {
			return nil, fmt.Errorf("open cart: %w", err)
		}

		detail := &entity.TransactionDetail{
			BaseNoDelete:  entity.NewBaseNoDelete(now),
			TransactionID: txn.ID,
			ScheduleID:    schedule.ID,
			SchedulePrice: schedule.TicketPrice,
		}
		err = s.repo.TransactionDetail.Create(ctx, detail)
		if errors.Is(err, repository.ErrNoRowsAffected) {
			// the cart was checked out or cancelled after we found it
			if attempt < maxCartAttempts {
				s.log.Info("Cart closed while adding ticket, opening a new one",
					zap.String("transaction_id", txn.ID.String()))
				continue
			}
			return nil, fmt.Errorf("cannot add ticket: cart is no longer pending")
		}
		if err != nil {
			return nil, fmt.Errorf("add ticket: %w", err)
		}

		s.log.Info("Ticket added to cart",
			zap.String("transaction_id", txn.ID.String()),
			zap.Bool("new_cart", created),
			zap.String("schedule_id", schedule.ID.String()),
			zap.String("price", schedule.TicketPrice.StringFixed(2)))

		return s.buildResponse(ctx, txn)
	}
}

func (s *transactionService) Checkout(ctx context.Context, actor Actor, transactionID string) (*response.TransactionResponse, error) {
	txn, err := findOwnedTransaction(ctx, s.repo, actor, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return nil, fmt.Errorf("cannot checkout a %s transaction", txn.Status)
	}

	count, err := s.repo.TransactionDetail.CountByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("cannot checkout an empty transaction")
	}

	now := s.now()
	confirmation, err := s.repo.Transaction.MarkPurchased(ctx, txn.ID, s.ticket.ConfirmationNumberSeed, now)
	if err != nil {
		return nil, s.conflictError(ctx, txn.ID, "checkout", err)
	}

	txn.Status = entity.TransactionStatusPurchased
	txn.ConfirmationNumber = &confirmation
	txn.UpdatedAt = now

	resp, err := s.buildResponse(ctx, txn)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventTransactionPurchased, resp)
	return resp, nil
}

func (s *transactionService) Cancel(ctx context.Context, actor Actor, transactionID string) (*response.TransactionResponse, error) {
	txn, err := findOwnedTransaction(ctx, s.repo, actor, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == entity.TransactionStatusCancelled {
		return nil, fmt.Errorf("transaction already cancelled")
	}

	now := s.now()
	from := []entity.TransactionStatus{entity.TransactionStatusPending, entity.TransactionStatusPurchased}
	if err := s.repo.Transaction.UpdateStatus(ctx, txn.ID, from, entity.TransactionStatusCancelled, now); err != nil {
		return nil, s.conflictError(ctx, txn.ID, "cancel", err)
	}

	txn.Status = entity.TransactionStatusCancelled
	txn.UpdatedAt = now

	resp, err := s.buildResponse(ctx, txn)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventTransactionCancelled, resp)
	return resp, nil
}

// conflictError tells a vanished transaction apart from one whose status
// changed underneath the caller.
func (s *transactionService) conflictError(ctx context.Context, id uuid.UUID, action string, err error) error {
	if !errors.Is(err, repository.ErrNoRowsAffected) {
		return fmt.Errorf("%s transaction: %w", action, err)
	}

	exists, existsErr := s.repo.Transaction.Exists(ctx, id)
	if existsErr != nil {
		return fmt.Errorf("%s transaction: %w", action, existsErr)
	}
	if !exists {
		return fmt.Errorf("transaction not found")
	}
	return fmt.Errorf("cannot %s transaction: it is no longer pending", action)
}

func (s *transactionService) buildResponse(ctx context.Context, txn *entity.Transaction) (*response.TransactionResponse, error) {
	details, err := s.repo.TransactionDetail.FindByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, fmt.Errorf("get transaction details: %w", err)
	}

	resp := response.TransactionToResponse(txn, details)
	return &resp, nil
}

// publish is fire and forget; the purchase already committed.
func (s *transactionService) publish(ctx context.Context, eventType string, txn *response.TransactionResponse) {
	event := queue.TransactionEvent{
		Type:               eventType,
		TransactionID:      txn.ID,
		TransactionNumber:  txn.TransactionNumber,
		ConfirmationNumber: txn.ConfirmationNumber,
		UserID:             txn.UserID,
		Tickets:            txn.TicketCount,
		Total:              txn.Total.StringFixed(2),
		OccurredAt:         s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish transaction event",
			zap.Error(err),
			zap.String("event", eventType),
			zap.String("transaction_id", txn.ID))
	}
}

// findOwnedTransaction loads a transaction the actor may act on.
func findOwnedTransaction(ctx context.Context, repo *repository.Repository, actor Actor, transactionID string) (*entity.Transaction, error) {
	id, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID")
	}

	txn, err := repo.Transaction.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("transaction not found")
	}
	if !actor.canAccess(txn.UserID) {
		return nil, fmt.Errorf("forbidden: not your transaction")
	}

	return txn, nil
}

// findPricedSchedule loads the schedule a ticket is being bought for. The
// view only exists when the schedule has a price row.
func findPricedSchedule(ctx context.Context, repo *repository.Repository, scheduleID string) (*entity.ScheduleView, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID")
	}

	schedule, err := repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule or its price not found")
	}

	return schedule, nil
}
