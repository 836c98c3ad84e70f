package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Writes lock the owning transaction row and return ErrNoRowsAffected when
// it is no longer pending, so a ticket never lands in a checked out order.
type TransactionDetailRepository interface {
	Create(ctx context.Context, detail *entity.TransactionDetail) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TransactionDetailView, error)
	FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entity.TransactionDetailView, error)
	CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error)
	Update(ctx context.Context, detail *entity.TransactionDetail) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type transactionDetailRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionDetailRepository(db database.PgxIface, log *zap.Logger) TransactionDetailRepository {
	return &transactionDetailRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction_detail")),
	}
}

const detailViewSelect = `
	SELECT d.id, d.transaction_id, d.schedule_id, d.schedule_price, d.created_at, d.updated_at,
	       s.theatre, s.start_time, s.ticket_type, s.movie_id, m.title
	FROM transaction_details d
	JOIN schedules s ON s.id = d.schedule_id
	JOIN movies m ON m.id = s.movie_id`

func scanDetailView(row pgx.Row) (*entity.TransactionDetailView, error) {
	var view entity.TransactionDetailView
	err := row.Scan(
		&view.ID,
		&view.TransactionID,
		&view.ScheduleID,
		&view.SchedulePrice,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Theatre,
		&view.StartTime,
		&view.TicketType,
		&view.MovieID,
		&view.MovieTitle,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *transactionDetailRepository) Create(ctx context.Context, detail *entity.TransactionDetail) error {
	query := `
		INSERT INTO transaction_details (id, transaction_id, schedule_id, schedule_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPendingTransaction(ctx, tx, detail.TransactionID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, query,
			detail.ID,
			detail.TransactionID,
			detail.ScheduleID,
			detail.SchedulePrice,
			detail.CreatedAt,
			detail.UpdatedAt,
		)
		return err
	})
	if errors.Is(err, ErrNoRowsAffected) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to create transaction detail",
			zap.Error(err),
			zap.String("transaction_id", detail.TransactionID.String()),
			zap.String("schedule_id", detail.ScheduleID.String()),
		)
		return fmt.Errorf("create detail for transaction %s: %w", detail.TransactionID.String(), err)
	}

	return nil
}

func (r *transactionDetailRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TransactionDetailView, error) {
	view, err := scanDetailView(r.db.QueryRow(ctx, detailViewSelect+` WHERE d.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction detail", zap.Error(err), zap.String("detail_id", id.String()))
		return nil, fmt.Errorf("find transaction detail %s: %w", id.String(), err)
	}
	return view, nil
}

func (r *transactionDetailRepository) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entity.TransactionDetailView, error) {
	rows, err := r.db.Query(ctx, detailViewSelect+` WHERE d.transaction_id = $1 ORDER BY s.start_time, d.created_at`, transactionID)
	if err != nil {
		r.log.Error("Failed to find transaction details",
			zap.Error(err),
			zap.String("transaction_id", transactionID.String()),
		)
		return nil, fmt.Errorf("find details of transaction %s: %w", transactionID.String(), err)
	}
	defer rows.Close()

	details := []*entity.TransactionDetailView{}
	for rows.Next() {
		view, err := scanDetailView(rows)
		if err != nil {
			r.log.Error("Failed to scan transaction detail row", zap.Error(err))
			return nil, fmt.Errorf("scan transaction detail row: %w", err)
		}
		details = append(details, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction detail rows: %w", err)
	}

	return details, nil
}

func (r *transactionDetailRepository) CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transaction_details WHERE transaction_id = $1`, transactionID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count transaction details", zap.Error(err))
		return 0, fmt.Errorf("count details of transaction %s: %w", transactionID.String(), err)
	}
	return count, nil
}

func (r *transactionDetailRepository) Update(ctx context.Context, detail *entity.TransactionDetail) error {
	query := `UPDATE transaction_details SET schedule_id = $2, schedule_price = $3, updated_at = $4 WHERE id = $1`

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPendingTransactionOf(ctx, tx, detail.ID); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, query, detail.ID, detail.ScheduleID, detail.SchedulePrice, detail.UpdatedAt)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNoRowsAffected
		}
		return nil
	})
	if errors.Is(err, ErrNoRowsAffected) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to update transaction detail", zap.Error(err), zap.String("detail_id", detail.ID.String()))
		return fmt.Errorf("update transaction detail %s: %w", detail.ID.String(), err)
	}

	return nil
}

func (r *transactionDetailRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPendingTransactionOf(ctx, tx, id); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `DELETE FROM transaction_details WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNoRowsAffected
		}
		return nil
	})
	if errors.Is(err, ErrNoRowsAffected) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to delete transaction detail", zap.Error(err), zap.String("detail_id", id.String()))
		return fmt.Errorf("delete transaction detail %s: %w", id.String(), err)
	}

	return nil
}

// lockPendingTransaction holds the transaction row until tx ends. Checkout
// and cancel update the same row, so they wait for the ticket write.
func lockPendingTransaction(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) error {
	var status entity.TransactionStatus
	err := tx.QueryRow(ctx,
		`SELECT status FROM transactions WHERE id = $1 FOR UPDATE`, transactionID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRowsAffected
	}
	if err != nil {
		return fmt.Errorf("lock transaction %s: %w", transactionID.String(), err)
	}
	if status != entity.TransactionStatusPending {
		return ErrNoRowsAffected
	}
	return nil
}

func lockPendingTransactionOf(ctx context.Context, tx pgx.Tx, detailID uuid.UUID) error {
	var transactionID uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT transaction_id FROM transaction_details WHERE id = $1`, detailID).Scan(&transactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRowsAffected
	}
	if err != nil {
		return fmt.Errorf("find transaction of detail %s: %w", detailID.String(), err)
	}
	return lockPendingTransaction(ctx, tx, transactionID)
}

func (r *transactionDetailRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transaction_details WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transaction detail %s exists: %w", id.String(), err)
	}
	return exists, nil
}
