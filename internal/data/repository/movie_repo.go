package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MovieFilter narrows movie listings. Nil fields are ignored.
type MovieFilter struct {
	MPAARating *entity.MPAARating
	Search     *string
}

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindByTitle(ctx context.Context, title string) (*entity.Movie, error)
	FindAll(ctx context.Context, filter MovieFilter, limit, offset int) ([]*entity.Movie, error)
	CountAll(ctx context.Context, filter MovieFilter) (int64, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, description, mpaa_rating, runtime_minutes, genre, release_date,
	created_at, updated_at, deleted_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.MPAARating,
		&movie.RuntimeMinutes,
		&movie.Genre,
		&movie.ReleaseDate,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&movie.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// buildWhere appends the filter predicates and returns the next placeholder index.
func (f MovieFilter) buildWhere(qb *strings.Builder, args *[]any) int {
	argCount := 1
	if f.MPAARating != nil && *f.MPAARating != "" {
		qb.WriteString(fmt.Sprintf(" AND mpaa_rating = $%d", argCount))
		*args = append(*args, *f.MPAARating)
		argCount++
	}
	if f.Search != nil && *f.Search != "" {
		qb.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argCount, argCount))
		*args = append(*args, "%"+*f.Search+"%")
		argCount++
	}
	return argCount
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, description, mpaa_rating, runtime_minutes, genre,
		                    release_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.MPAARating,
		movie.RuntimeMinutes,
		movie.Genre,
		movie.ReleaseDate,
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create movie", zap.Error(err), zap.String("title", movie.Title))
		return fmt.Errorf("create movie %s: %w", movie.Title, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID", zap.Error(err), zap.String("movie_id", id.String()))
		return nil, fmt.Errorf("find movie by ID %s: %w", id.String(), err)
	}

	return movie, nil
}

func (r *movieRepository) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE title = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, title))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by title", zap.Error(err), zap.String("title", title))
		return nil, fmt.Errorf("find movie by title %s: %w", title, err)
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + movieColumns + ` FROM movies WHERE deleted_at IS NULL`)

	args := []any{}
	argCount := filter.buildWhere(&qb, &args)
	qb.WriteString(fmt.Sprintf(" ORDER BY title LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context, filter MovieFilter) (int64, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT COUNT(*) FROM movies WHERE deleted_at IS NULL`)

	args := []any{}
	filter.buildWhere(&qb, &args)

	var count int64
	if err := r.db.QueryRow(ctx, qb.String(), args...).Scan(&count); err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("count movies: %w", err)
	}

	return count, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, description = $3, mpaa_rating = $4, runtime_minutes = $5,
		    genre = $6, release_date = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.MPAARating,
		movie.RuntimeMinutes,
		movie.Genre,
		movie.ReleaseDate,
		movie.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", movie.ID.String()))
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", movie.ID.String())
	}

	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE movies SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete movie", zap.Error(err), zap.String("movie_id", id.String()))
		return fmt.Errorf("delete movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", id.String())
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}

func (r *movieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check movie existence", zap.Error(err), zap.String("movie_id", id.String()))
		return false, fmt.Errorf("check movie %s exists: %w", id.String(), err)
	}

	return exists, nil
}
