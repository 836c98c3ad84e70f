package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/database"
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Advisory lock keys serialising the two global sequences.
const (
	transactionNumberLock  = "transactions.transaction_number"
	confirmationNumberLock = "transactions.confirmation_number"
)

type TransactionRepository interface {
	// Create stores txn with the next transaction number starting from seed.
	Create(ctx context.Context, txn *entity.Transaction, seed int64) error
	// FindOrCreatePending returns the user's open cart, creating one when none
	// exists. The bool reports whether a new transaction was created.
	FindOrCreatePending(ctx context.Context, userID uuid.UUID, seed int64, now time.Time) (*entity.Transaction, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	FindAll(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*entity.Transaction, error)
	CountAll(ctx context.Context, userID *uuid.UUID) (int64, error)
	UpdateNote(ctx context.Context, id uuid.UUID, note string, now time.Time) error
	// MarkPurchased moves a pending transaction to purchased and assigns the
	// next confirmation number starting from seed.
	MarkPurchased(ctx context.Context, id uuid.UUID, seed int64, now time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.TransactionStatus, to entity.TransactionStatus, now time.Time) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

const transactionColumns = `id, transaction_number, confirmation_number, transaction_date, note,
	status, user_id, created_at, updated_at`

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.TransactionNumber,
		&txn.ConfirmationNumber,
		&txn.TransactionDate,
		&txn.Note,
		&txn.Status,
		&txn.UserID,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// nextNumber locks the sequence for the rest of tx and returns max(column)+1.
func nextNumber(ctx context.Context, tx pgx.Tx, lockKey, column string, seed int64) (int64, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return 0, fmt.Errorf("lock %s: %w", lockKey, err)
	}

	var current *int64
	if err := tx.QueryRow(ctx, `SELECT MAX(`+column+`) FROM transactions`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read max %s: %w", column, err)
	}

	return utils.NextSequence(current, seed), nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, txn *entity.Transaction, seed int64) error {
	number, err := nextNumber(ctx, tx, transactionNumberLock, "transaction_number", seed)
	if err != nil {
		return err
	}
	txn.TransactionNumber = number

	query := `
		INSERT INTO transactions (id, transaction_number, confirmation_number, transaction_date,
		                          note, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		txn.ID,
		txn.TransactionNumber,
		txn.ConfirmationNumber,
		txn.TransactionDate,
		txn.Note,
		txn.Status,
		txn.UserID,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	return err
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction, seed int64) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return insertTransaction(ctx, tx, txn, seed)
	})
	if err != nil {
		r.log.Error("Failed to create transaction", zap.Error(err), zap.String("user_id", txn.UserID.String()))
		return fmt.Errorf("create transaction for user %s: %w", txn.UserID.String(), err)
	}

	r.log.Info("Transaction created",
		zap.String("transaction_id", txn.ID.String()),
		zap.Int64("transaction_number", txn.TransactionNumber),
	)
	return nil
}

func (r *transactionRepository) FindOrCreatePending(ctx context.Context, userID uuid.UUID, seed int64, now time.Time) (*entity.Transaction, bool, error) {
	var (
		txn     *entity.Transaction
		created bool
	)

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// one cart per user even under concurrent add-to-cart calls
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "cart:"+userID.String()); err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		query := `SELECT ` + transactionColumns + ` FROM transactions
			WHERE user_id = $1 AND status = 'pending'
			ORDER BY transaction_date DESC, transaction_number DESC
			LIMIT 1`
		existing, err := scanTransaction(tx.QueryRow(ctx, query, userID))
		if err == nil {
			txn = existing
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		txn = &entity.Transaction{
			BaseNoDelete:    entity.NewBaseNoDelete(now),
			TransactionDate: now,
			Status:          entity.TransactionStatusPending,
			UserID:          userID,
		}
		created = true
		return insertTransaction(ctx, tx, txn, seed)
	})
	if err != nil {
		r.log.Error("Failed to find or create cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, false, fmt.Errorf("find or create cart for user %s: %w", userID.String(), err)
	}

	return txn, created, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by ID", zap.Error(err), zap.String("transaction_id", id.String()))
		return nil, fmt.Errorf("find transaction by ID %s: %w", id.String(), err)
	}

	return txn, nil
}

// FindAll lists transactions newest first; a nil userID lists everyone's.
func (r *transactionRepository) FindAll(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE ($1::uuid IS NULL OR user_id = $1)
		ORDER BY transaction_number DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find transactions", zap.Error(err))
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer rows.Close()

	var txns []*entity.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			r.log.Error("Failed to scan transaction row", zap.Error(err))
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txns, nil
}

func (r *transactionRepository) CountAll(ctx context.Context, userID *uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE ($1::uuid IS NULL OR user_id = $1)`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count transactions", zap.Error(err))
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func (r *transactionRepository) UpdateNote(ctx context.Context, id uuid.UUID, note string, now time.Time) error {
	query := `UPDATE transactions SET note = $2, updated_at = $3 WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id, note, now)
	if err != nil {
		r.log.Error("Failed to update transaction note", zap.Error(err), zap.String("transaction_id", id.String()))
		return fmt.Errorf("update transaction %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *transactionRepository) MarkPurchased(ctx context.Context, id uuid.UUID, seed int64, now time.Time) (int64, error) {
	var confirmation int64

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// row lock first, so pending ticket writes finish before the number is taken
		if err := lockPendingTransaction(ctx, tx, id); err != nil {
			return err
		}

		number, err := nextNumber(ctx, tx, confirmationNumberLock, "confirmation_number", seed)
		if err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `
			UPDATE transactions
			SET status = 'purchased', confirmation_number = $2, updated_at = $3
			WHERE id = $1 AND status = 'pending'`, id, number, now)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNoRowsAffected
		}

		confirmation = number
		return nil
	})
	if errors.Is(err, ErrNoRowsAffected) {
		return 0, err
	}
	if err != nil {
		r.log.Error("Failed to mark transaction purchased", zap.Error(err), zap.String("transaction_id", id.String()))
		return 0, fmt.Errorf("purchase transaction %s: %w", id.String(), err)
	}

	r.log.Info("Transaction purchased",
		zap.String("transaction_id", id.String()),
		zap.Int64("confirmation_number", confirmation),
	)
	return confirmation, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.TransactionStatus, to entity.TransactionStatus, now time.Time) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var current entity.TransactionStatus
		err := tx.QueryRow(ctx, `SELECT status FROM transactions WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoRowsAffected
		}
		if err != nil {
			return err
		}
		if !slices.Contains(from, current) {
			return ErrNoRowsAffected
		}

		_, err = tx.Exec(ctx, `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`, id, to, now)
		return err
	})
	if errors.Is(err, ErrNoRowsAffected) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to update transaction status",
			zap.Error(err),
			zap.String("transaction_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update transaction %s status: %w", id.String(), err)
	}

	return nil
}

func (r *transactionRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transaction %s exists: %w", id.String(), err)
	}
	return exists, nil
}
