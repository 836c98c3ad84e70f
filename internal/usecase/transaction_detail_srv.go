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
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionDetailService interface {
	GetDetails(ctx context.Context, actor Actor, transactionID string) ([]response.TransactionDetailResponse, error)
	AddDetail(ctx context.Context, actor Actor, transactionID string, req *request.TransactionDetailRequest) (*response.TransactionDetailResponse, error)
	UpdateDetail(ctx context.Context, actor Actor, detailID string, req *request.TransactionDetailRequest) (*response.TransactionDetailResponse, error)
	DeleteDetail(ctx context.Context, actor Actor, detailID string) error
}

type transactionDetailService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewTransactionDetailService(repo *repository.Repository, log *zap.Logger) TransactionDetailService {
	return &transactionDetailService{
		repo: repo,
		log:  log.With(zap.String("service", "transaction_detail")),
		now:  time.Now,
	}
}

func (s *transactionDetailService) GetDetails(ctx context.Context, actor Actor, transactionID string) ([]response.TransactionDetailResponse, error) {
	txn, err := findOwnedTransaction(ctx, s.repo, actor, transactionID)
	if err != nil {
		return nil, err
	}

	details, err := s.repo.TransactionDetail.FindByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, fmt.Errorf("get transaction details: %w", err)
	}

	data := make([]response.TransactionDetailResponse, 0, len(details))
	for _, d := range details {
		data = append(data, response.TransactionDetailToResponse(d))
	}
	return data, nil
}

func (s *transactionDetailService) AddDetail(ctx context.Context, actor Actor, transactionID string, req *request.TransactionDetailRequest) (*response.TransactionDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	txn, err := findOwnedTransaction(ctx, s.repo, actor, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return nil, fmt.Errorf("cannot add tickets to a %s transaction", txn.Status)
	}

	schedule, err := findPricedSchedule(ctx, s.repo, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	detail := &entity.TransactionDetail{
		BaseNoDelete:  entity.NewBaseNoDelete(s.now()),
		TransactionID: txn.ID,
		ScheduleID:    schedule.ID,
		SchedulePrice: schedule.TicketPrice,
	}
	if err := s.repo.TransactionDetail.Create(ctx, detail); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("cannot add tickets: transaction is no longer pending")
		}
		return nil, fmt.Errorf("add ticket: %w", err)
	}

	s.log.Info("Ticket added",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("detail_id", detail.ID.String()))

	return s.getDetail(ctx, detail.ID)
}

func (s *transactionDetailService) UpdateDetail(ctx context.Context, actor Actor, detailID string, req *request.TransactionDetailRequest) (*response.TransactionDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	existing, err := s.findEditableDetail(ctx, actor, detailID)
	if err != nil {
		return nil, err
	}

	schedule, err := findPricedSchedule(ctx, s.repo, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	detail := existing.TransactionDetail
	detail.ScheduleID = schedule.ID
	detail.SchedulePrice = schedule.TicketPrice
	detail.UpdatedAt = s.now()

	if err := s.repo.TransactionDetail.Update(ctx, &detail); err != nil {
		return nil, s.writeError(ctx, detail.ID, "update", err)
	}

	return s.getDetail(ctx, detail.ID)
}

func (s *transactionDetailService) DeleteDetail(ctx context.Context, actor Actor, detailID string) error {
	existing, err := s.findEditableDetail(ctx, actor, detailID)
	if err != nil {
		return err
	}

	if err := s.repo.TransactionDetail.Delete(ctx, existing.ID); err != nil {
		return s.writeError(ctx, existing.ID, "delete", err)
	}

	s.log.Info("Ticket removed",
		zap.String("transaction_id", existing.TransactionID.String()),
		zap.String("detail_id", detailID))
	return nil
}

// findEditableDetail loads a line item whose transaction is still pending
// and owned by actor.
func (s *transactionDetailService) findEditableDetail(ctx context.Context, actor Actor, detailID string) (*entity.TransactionDetailView, error) {
	id, err := uuid.Parse(detailID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction detail ID")
	}

	detail, err := s.repo.TransactionDetail.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction detail: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("transaction detail not found")
	}

	txn, err := findOwnedTransaction(ctx, s.repo, actor, detail.TransactionID.String())
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return nil, fmt.Errorf("cannot change tickets of a %s transaction", txn.Status)
	}

	return detail, nil
}

// writeError tells a vanished line item apart from one whose transaction
// left pending while the write waited.
func (s *transactionDetailService) writeError(ctx context.Context, id uuid.UUID, action string, err error) error {
	if !errors.Is(err, repository.ErrNoRowsAffected) {
		return fmt.Errorf("%s ticket: %w", action, err)
	}

	exists, existsErr := s.repo.TransactionDetail.Exists(ctx, id)
	if existsErr != nil {
		return fmt.Errorf("%s ticket: %w", action, existsErr)
	}
	if !exists {
		return fmt.Errorf("transaction detail not found")
	}
	return fmt.Errorf("cannot %s ticket: transaction is no longer pending", action)
}

func (s *transactionDetailService) getDetail(ctx context.Context, id uuid.UUID) (*response.TransactionDetailResponse, error) {
	view, err := s.repo.TransactionDetail.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction detail: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("transaction detail not found")
	}

	resp := response.TransactionDetailToResponse(view)
	return &resp, nil
}
