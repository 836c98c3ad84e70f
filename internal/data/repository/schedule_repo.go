package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ScheduleFilter narrows the showtime listing. Nil fields are ignored.
// StartDate and EndDate compare calendar dates and are both inclusive.
// When SearchTime is set the start time must also equal it.
type ScheduleFilter struct {
	MovieID    *uuid.UUID
	Theatre    *entity.Theatre
	StartDate  *time.Time
	EndDate    *time.Time
	Search     *string
	SearchTime *time.Time
	MPAARating *entity.MPAARating
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ScheduleView, error)
	FindAll(ctx context.Context, filter ScheduleFilter) ([]*entity.ScheduleView, error)
	CountAll(ctx context.Context) (int64, error)
	DistinctTheatres(ctx context.Context) ([]entity.Theatre, error)
	// FindPrevious returns the latest showtime in theatre starting before start.
	FindPrevious(ctx context.Context, theatre entity.Theatre, start time.Time, excludeID *uuid.UUID) (*entity.ScheduleView, error)
	// FindNext returns the earliest showtime in theatre starting after start.
	FindNext(ctx context.Context, theatre entity.Theatre, start time.Time, excludeID *uuid.UUID) (*entity.ScheduleView, error)
	FindByTheatreAndStart(ctx context.Context, theatre entity.Theatre, start time.Time) (*entity.ScheduleView, error)
	Update(ctx context.Context, schedule *entity.Schedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type scheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScheduleRepository(db database.PgxIface, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

const scheduleViewSelect = `
	SELECT s.id, s.theatre, s.start_time, s.ticket_type, s.movie_id, s.price_id,
	       s.created_at, s.updated_at,
	       m.title, m.description, m.mpaa_rating, m.runtime_minutes, p.ticket_price
	FROM schedules s
	JOIN movies m ON m.id = s.movie_id
	JOIN prices p ON p.id = s.price_id
	WHERE 1 = 1`

func scanScheduleView(row pgx.Row) (*entity.ScheduleView, error) {
	var view entity.ScheduleView
	err := row.Scan(
		&view.ID,
		&view.Theatre,
		&view.StartTime,
		&view.TicketType,
		&view.MovieID,
		&view.PriceID,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.MovieTitle,
		&view.MovieDescription,
		&view.MPAARating,
		&view.RuntimeMinutes,
		&view.TicketPrice,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		INSERT INTO schedules (id, theatre, start_time, ticket_type, movie_id, price_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.Theatre,
		schedule.StartTime,
		schedule.TicketType,
		schedule.MovieID,
		schedule.PriceID,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("movie_id", schedule.MovieID.String()),
			zap.String("theatre", string(schedule.Theatre)),
			zap.Time("start_time", schedule.StartTime),
		)
		return fmt.Errorf("create schedule for movie %s in %s: %w",
			schedule.MovieID.String(), schedule.Theatre, err)
	}

	return nil
}

func (r *scheduleRepository) queryOne(ctx context.Context, op, suffix string, args ...any) (*entity.ScheduleView, error) {
	view, err := scanScheduleView(r.db.QueryRow(ctx, scheduleViewSelect+suffix, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ScheduleView, error) {
	return r.queryOne(ctx, "find schedule by ID "+id.String(), ` AND s.id = $1`, id)
}

func (r *scheduleRepository) FindAll(ctx context.Context, filter ScheduleFilter) ([]*entity.ScheduleView, error) {
	var qb strings.Builder
	qb.WriteString(scheduleViewSelect)

	args := []any{}
	argCount := 1
	add := func(clause string, arg any) {
		qb.WriteString(strings.ReplaceAll(clause, "$?", fmt.Sprintf("$%d", argCount)))
		args = append(args, arg)
		argCount++
	}

	if filter.MovieID != nil {
		add(" AND s.movie_id = $?", *filter.MovieID)
	}
	if filter.Theatre != nil && *filter.Theatre != "" {
		add(" AND s.theatre = $?", *filter.Theatre)
	}
	if filter.StartDate != nil {
		add(" AND s.start_time::date >= $?::date", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add(" AND s.start_time::date <= $?::date", *filter.EndDate)
	}
	if filter.MPAARating != nil && *filter.MPAARating != "" {
		add(" AND m.mpaa_rating = $?", *filter.MPAARating)
	}
	if filter.Search != nil && *filter.Search != "" {
		add(" AND (m.title ILIKE $? OR m.description ILIKE $?)", "%"+*filter.Search+"%")
	}
	if filter.SearchTime != nil {
		add(" AND s.start_time = $?", *filter.SearchTime)
	}
	qb.WriteString(" ORDER BY s.start_time, s.theatre")

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		r.log.Error("Failed to find schedules", zap.Error(err))
		return nil, fmt.Errorf("find schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*entity.ScheduleView
	for rows.Next() {
		view, err := scanScheduleView(rows)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, view)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate schedule rows: %w", err)
	}

	return schedules, nil
}

func (r *scheduleRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM schedules`).Scan(&count); err != nil {
		r.log.Error("Failed to count schedules", zap.Error(err))
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return count, nil
}

func (r *scheduleRepository) DistinctTheatres(ctx context.Context) ([]entity.Theatre, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT theatre FROM schedules ORDER BY theatre`)
	if err != nil {
		r.log.Error("Failed to list theatres", zap.Error(err))
		return nil, fmt.Errorf("list theatres: %w", err)
	}
	defer rows.Close()

	theatres := []entity.Theatre{}
	for rows.Next() {
		var theatre entity.Theatre
		if err := rows.Scan(&theatre); err != nil {
			return nil, fmt.Errorf("scan theatre: %w", err)
		}
		theatres = append(theatres, theatre)
	}

	return theatres, rows.Err()
}

func (r *scheduleRepository) FindPrevious(ctx context.Context, theatre entity.Theatre, start time.Time, excludeID *uuid.UUID) (*entity.ScheduleView, error) {
	return r.queryOne(ctx, "find previous schedule in "+string(theatre), `
		AND s.theatre = $1 AND s.start_time < $2
		AND ($3::uuid IS NULL OR s.id <> $3)
		ORDER BY s.start_time DESC
		LIMIT 1`, theatre, start, excludeID)
}

func (r *scheduleRepository) FindNext(ctx context.Context, theatre entity.Theatre, start time.Time, excludeID *uuid.UUID) (*entity.ScheduleView, error) {
	return r.queryOne(ctx, "find next schedule in "+string(theatre), `
		AND s.theatre = $1 AND s.start_time > $2
		AND ($3::uuid IS NULL OR s.id <> $3)
		ORDER BY s.start_time ASC
		LIMIT 1`, theatre, start, excludeID)
}

func (r *scheduleRepository) FindByTheatreAndStart(ctx context.Context, theatre entity.Theatre, start time.Time) (*entity.ScheduleView, error) {
	return r.queryOne(ctx, "find schedule in "+string(theatre)+" at "+start.Format(time.DateTime),
		` AND s.theatre = $1 AND s.start_time = $2`, theatre, start)
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		UPDATE schedules
		SET theatre = $2, start_time = $3, ticket_type = $4, movie_id = $5, price_id = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.Theatre,
		schedule.StartTime,
		schedule.TicketType,
		schedule.MovieID,
		schedule.PriceID,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update schedule", zap.Error(err), zap.String("schedule_id", schedule.ID.String()))
		return fmt.Errorf("update schedule %s: %w", schedule.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("cannot delete schedule %s: tickets have been sold for it", id.String())
	}
	if err != nil {
		r.log.Error("Failed to delete schedule", zap.Error(err), zap.String("schedule_id", id.String()))
		return fmt.Errorf("delete schedule %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s not found", id.String())
	}

	r.log.Info("Schedule deleted", zap.String("schedule_id", id.String()))
	return nil
}

func (r *scheduleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schedules WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check schedule existence", zap.Error(err), zap.String("schedule_id", id.String()))
		return false, fmt.Errorf("check schedule %s exists: %w", id.String(), err)
	}
	return exists, nil
}
