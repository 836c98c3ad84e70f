package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/dto/response"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// searchTimeLayouts are tried in order when the search text may be a showtime.
var searchTimeLayouts = []string{
	request.ScheduleTimeLayout,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
}

type ScheduleService interface {
	GetSchedules(ctx context.Context, req *request.ScheduleFilterRequest) (*response.ScheduleIndexResponse, error)
	GetScheduleByID(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error)
	CreateSchedule(ctx context.Context, req *request.ScheduleRequest) (*response.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, scheduleID string, req *request.ScheduleRequest) (*response.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
}

type scheduleService struct {
	repo  *repository.Repository
	rules GapRules
	cache cache.Invalidator
	log   *zap.Logger
	now   func() time.Time
}

func NewScheduleService(
	repo *repository.Repository,
	config *utils.Config,
	invalidator cache.Invalidator,
	log *zap.Logger,
) ScheduleService {
	return &scheduleService{
		repo:  repo,
		rules: NewGapRules(config.Ticket.MinGapMinutes, config.Ticket.MaxGapMinutes),
		cache: invalidator,
		log:   log.With(zap.String("service", "schedule")),
		now:   time.Now,
	}
}

func (s *scheduleService) GetSchedules(ctx context.Context, req *request.ScheduleFilterRequest) (*response.ScheduleIndexResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	filter, err := buildScheduleFilter(req)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.Schedule.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get schedules", zap.Error(err))
		return nil, fmt.Errorf("get schedules: %w", err)
	}

	total, err := s.repo.Schedule.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count schedules: %w", err)
	}

	theatres, err := s.repo.Schedule.DistinctTheatres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list theatres: %w", err)
	}

	resp := &response.ScheduleIndexResponse{
		Schedules:      make([]response.ScheduleResponse, 0, len(schedules)),
		TheatreOptions: theatres,
		TotalCount:     total,
		FilteredCount:  len(schedules),
	}
	for _, view := range schedules {
		resp.Schedules = append(resp.Schedules, response.ScheduleToResponse(view))
	}

	return resp, nil
}

func buildScheduleFilter(req *request.ScheduleFilterRequest) (repository.ScheduleFilter, error) {
	var filter repository.ScheduleFilter

	if req.MovieID != "" {
		id, err := uuid.Parse(req.MovieID)
		if err != nil {
			return filter, fmt.Errorf("invalid movie ID")
		}
		filter.MovieID = &id
	}
	if req.Theatre != "" {
		theatre := entity.Theatre(req.Theatre)
		filter.Theatre = &theatre
	}
	if req.StartDate != "" {
		date, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date")
		}
		filter.StartDate = &date
	}
	if req.EndDate != "" {
		date, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date")
		}
		filter.EndDate = &date
	}
	if req.MPAARating != "" {
		rating := entity.MPAARating(req.MPAARating)
		filter.MPAARating = &rating
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = &search
		if t, ok := parseSearchTime(search); ok {
			filter.SearchTime = &t
		}
	}

	return filter, nil
}

func parseSearchTime(value string) (time.Time, bool) {
	for _, layout := range searchTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *scheduleService) GetScheduleByID(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID")
	}

	view, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("schedule not found")
	}

	resp := response.ScheduleToResponse(view)
	return &resp, nil
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req *request.ScheduleRequest) (*response.ScheduleResponse, error) {
	schedule, err := s.scheduleFromRequest(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	schedule.BaseNoDelete = entity.NewBaseNoDelete(now)

	if err := s.validatePlacement(ctx, schedule, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.cache.Invalidate(ctx, cache.GroupSchedules)
	s.log.Info("Schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("theatre", string(schedule.Theatre)),
		zap.Time("start_time", schedule.StartTime))

	return s.GetScheduleByID(ctx, schedule.ID.String())
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, scheduleID string, req *request.ScheduleRequest) (*response.ScheduleResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID")
	}

	existing, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("schedule not found")
	}

	schedule, err := s.scheduleFromRequest(ctx, req, existing.PriceID)
	if err != nil {
		return nil, err
	}
	schedule.ID = existing.ID
	schedule.CreatedAt = existing.CreatedAt
	schedule.UpdatedAt = s.now()

	if err := s.validatePlacement(ctx, schedule, &schedule.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			exists, existsErr := s.repo.Schedule.Exists(ctx, id)
			if existsErr != nil {
				return nil, fmt.Errorf("update schedule: %w", existsErr)
			}
			if !exists {
				return nil, fmt.Errorf("schedule not found")
			}
		}
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	s.cache.Invalidate(ctx, cache.GroupSchedules)
	s.log.Info("Schedule updated", zap.String("schedule_id", scheduleID))

	return s.GetScheduleByID(ctx, scheduleID)
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, scheduleID string) error {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return fmt.Errorf("invalid schedule ID")
	}

	exists, err := s.repo.Schedule.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check schedule: %w", err)
	}
	if !exists {
		return fmt.Errorf("schedule not found")
	}

	if err := s.repo.Schedule.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.GroupSchedules)
	return nil
}

// scheduleFromRequest validates req and resolves its movie and price.
// currentPriceID is kept when the ticket type has no fixed mapping.
func (s *scheduleService) scheduleFromRequest(ctx context.Context, req *request.ScheduleRequest, currentPriceID int) (*entity.Schedule, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Schedule validation failed", zap.Any("errors", errs))
		return nil, fromFieldMap(errs)
	}

	start, err := time.Parse(request.ScheduleTimeLayout, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID")
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie not found")
	}

	ticketType := entity.TicketType(req.TicketType)
	priceID := ResolvePriceID(ticketType, currentPriceID)

	price, err := s.repo.Price.FindByID(ctx, priceID)
	if err != nil {
		return nil, fmt.Errorf("get price: %w", err)
	}
	if price == nil {
		return nil, fmt.Errorf("price for ticket type %s not found", ticketType)
	}

	return &entity.Schedule{
		Theatre:    entity.Theatre(req.Theatre),
		StartTime:  start,
		TicketType: ticketType,
		MovieID:    movie.ID,
		PriceID:    priceID,
	}, nil
}

// validatePlacement runs the gap rules against the neighbouring showtimes
// and rejects a second showtime at the same start in the same theatre.
func (s *scheduleService) validatePlacement(ctx context.Context, schedule *entity.Schedule, excludeID *uuid.UUID) error {
	prev, err := s.repo.Schedule.FindPrevious(ctx, schedule.Theatre, schedule.StartTime, excludeID)
	if err != nil {
		return fmt.Errorf("find previous schedule: %w", err)
	}
	next, err := s.repo.Schedule.FindNext(ctx, schedule.Theatre, schedule.StartTime, excludeID)
	if err != nil {
		return fmt.Errorf("find next schedule: %w", err)
	}

	errs := s.rules.Check(schedule.StartTime, prev, next)

	same, err := s.repo.Schedule.FindByTheatreAndStart(ctx, schedule.Theatre, schedule.StartTime)
	if err != nil {
		return fmt.Errorf("find schedule at start time: %w", err)
	}
	if same != nil && (excludeID == nil || same.ID != *excludeID) {
		errs.Add("start_time", fmt.Sprintf("%s is already showing in this theatre at %s.",
			same.MovieTitle, same.StartTime.Format("15:04")))
	}

	if errs.HasErrors() {
		s.log.Info("Schedule placement rejected",
			zap.String("theatre", string(schedule.Theatre)),
			zap.Time("start_time", schedule.StartTime),
			zap.Any("errors", errs.Fields))
	}

	return errs.OrNil()
}
