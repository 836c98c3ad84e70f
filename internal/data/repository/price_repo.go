package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PriceRepository interface {
	FindAll(ctx context.Context) ([]*entity.Price, error)
	FindByID(ctx context.Context, id int) (*entity.Price, error)
	Update(ctx context.Context, price *entity.Price) error
	// Upsert inserts the row or overwrites the amount. Reports whether a row was inserted.
	Upsert(ctx context.Context, price *entity.Price) (bool, error)
}

type priceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPriceRepository(db database.PgxIface, log *zap.Logger) PriceRepository {
	return &priceRepository{
		db:  db,
		log: log.With(zap.String("repository", "price")),
	}
}

func (r *priceRepository) FindAll(ctx context.Context) ([]*entity.Price, error) {
	query := `SELECT id, ticket_type, ticket_price, updated_at FROM prices ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find prices", zap.Error(err))
		return nil, fmt.Errorf("find prices: %w", err)
	}
	defer rows.Close()

	var prices []*entity.Price
	for rows.Next() {
		var price entity.Price
		if err := rows.Scan(&price.ID, &price.TicketType, &price.TicketPrice, &price.UpdatedAt); err != nil {
			r.log.Error("Failed to scan price row", zap.Error(err))
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		prices = append(prices, &price)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price rows: %w", err)
	}

	return prices, nil
}

func (r *priceRepository) FindByID(ctx context.Context, id int) (*entity.Price, error) {
	query := `SELECT id, ticket_type, ticket_price, updated_at FROM prices WHERE id = $1`

	var price entity.Price
	err := r.db.QueryRow(ctx, query, id).Scan(&price.ID, &price.TicketType, &price.TicketPrice, &price.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find price by ID", zap.Error(err), zap.Int("price_id", id))
		return nil, fmt.Errorf("find price by ID %d: %w", id, err)
	}

	return &price, nil
}

func (r *priceRepository) Update(ctx context.Context, price *entity.Price) error {
	query := `UPDATE prices SET ticket_price = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, price.ID, price.TicketPrice, price.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update price", zap.Error(err), zap.Int("price_id", price.ID))
		return fmt.Errorf("update price %d: %w", price.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("price %d not found", price.ID)
	}

	return nil
}

func (r *priceRepository) Upsert(ctx context.Context, price *entity.Price) (bool, error) {
	// xmax = 0 only for freshly inserted tuples
	query := `
		INSERT INTO prices (id, ticket_type, ticket_price, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET ticket_type = EXCLUDED.ticket_type,
		    ticket_price = EXCLUDED.ticket_price,
		    updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`

	var inserted bool
	err := r.db.QueryRow(ctx, query, price.ID, price.TicketType, price.TicketPrice, price.UpdatedAt).Scan(&inserted)
	if err != nil {
		r.log.Error("Failed to upsert price", zap.Error(err), zap.Int("price_id", price.ID))
		return false, fmt.Errorf("upsert price %d: %w", price.ID, err)
	}

	return inserted, nil
}
