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

// ReviewFilter narrows review listings. Nil fields are ignored.
type ReviewFilter struct {
	MovieID *uuid.UUID
	UserID  *uuid.UUID
	Status  *entity.ReviewStatus
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewView, error)
	FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error)
	FindAll(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.ReviewView, error)
	CountAll(ctx context.Context, filter ReviewFilter) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Upsert keys on (user_id, movie_id). Reports whether a row was inserted.
	Upsert(ctx context.Context, review *entity.Review) (bool, error)

	// GetMovieReviewStats averages approved reviews only.
	GetMovieReviewStats(ctx context.Context, movieID uuid.UUID) (float64, int64, error) // rating, count
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewViewSelect = `
	SELECT r.id, r.user_id, r.movie_id, r.rating, r.description, r.status,
	       r.created_at, r.updated_at, u.username, m.title
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN movies m ON m.id = r.movie_id`

func scanReviewView(row pgx.Row) (*entity.ReviewView, error) {
	var view entity.ReviewView
	err := row.Scan(
		&view.ID,
		&view.UserID,
		&view.MovieID,
		&view.Rating,
		&view.Description,
		&view.Status,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Username,
		&view.MovieTitle,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

const reviewFilterWhere = `
	WHERE ($1::uuid IS NULL OR r.movie_id = $1)
	  AND ($2::uuid IS NULL OR r.user_id = $2)
	  AND ($3::text IS NULL OR r.status = $3)`

func (f ReviewFilter) args() []any {
	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}
	return []any{f.MovieID, f.UserID, status}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, movie_id, rating, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Description,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("movie already reviewed by this user")
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("movie_id", review.MovieID.String()),
		)
		return fmt.Errorf("create review for movie %s by user %s: %w",
			review.MovieID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewView, error) {
	view, err := scanReviewView(r.db.QueryRow(ctx, reviewViewSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}
	return view, nil
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, description, status, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND movie_id = $2
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, userID, movieID).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Description,
		&review.Status,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and movie",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find review by user %s and movie %s: %w",
			userID.String(), movieID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindAll(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.ReviewView, error) {
	query := reviewViewSelect + reviewFilterWhere + ` ORDER BY r.created_at DESC LIMIT $4 OFFSET $5`

	rows, err := r.db.Query(ctx, query, append(filter.args(), limit, offset)...)
	if err != nil {
		r.log.Error("Failed to find reviews",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*entity.ReviewView
	for rows.Next() {
		view, err := scanReviewView(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountAll(ctx context.Context, filter ReviewFilter) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews r`+reviewFilterWhere, filter.args()...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, description = $3, status = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Description,
		review.Status,
		review.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error {
	result, err := r.db.Exec(ctx, `UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		r.log.Error("Failed to update review status", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("update review %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

func (r *reviewRepository) Upsert(ctx context.Context, review *entity.Review) (bool, error) {
	query := `
		INSERT INTO reviews (id, user_id, movie_id, rating, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, movie_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    description = EXCLUDED.description,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		review.ID,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Description,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		r.log.Error("Failed to upsert review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("movie_id", review.MovieID.String()),
		)
		return false, fmt.Errorf("upsert review for movie %s: %w", review.MovieID.String(), err)
	}

	return inserted, nil
}

func (r *reviewRepository) GetMovieReviewStats(ctx context.Context, movieID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT
			COALESCE(AVG(rating), 0)::float8 AS avg_rating,
			COUNT(*) AS review_count
		FROM reviews
		WHERE movie_id = $1 AND status = 'approved'
	`

	var avgRating float64
	var reviewCount int64
	if err := r.db.QueryRow(ctx, query, movieID).Scan(&avgRating, &reviewCount); err != nil {
		r.log.Error("Failed to get movie review stats",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return 0, 0, fmt.Errorf("get movie review stats for %s: %w", movieID.String(), err)
	}

	return avgRating, reviewCount, nil
}
