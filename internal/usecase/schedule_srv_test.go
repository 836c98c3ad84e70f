package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func at(clock string) time.Time {
	t, err := time.Parse(request.ScheduleTimeLayout, "2026-03-02T"+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func newScheduleTestService(fx *fixture) ScheduleService {
	return NewScheduleService(fx.repo, testConfig(), cache.NoopInvalidator{}, zap.NewNop())
}

func scheduleReq(movie *entity.Movie, theatre entity.Theatre, clock string, tt entity.TicketType) *request.ScheduleRequest {
	return &request.ScheduleRequest{
		Theatre:    string(theatre),
		StartTime:  "2026-03-02T" + clock,
		TicketType: string(tt),
		MovieID:    movie.ID.String(),
	}
}

func requireStartTimeErrors(t *testing.T, err error, count int) {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Len(t, verr.Fields["start_time"], count)
}

func TestCreateScheduleResolvesPrice(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("The Goonies", 114)
	svc := newScheduleTestService(fx)

	resp, err := svc.CreateSchedule(context.Background(),
		scheduleReq(movie, entity.Theatre1, "13:00", entity.TicketTypeMatinee))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.PriceID)
	assert.Equal(t, "5.00", resp.TicketPrice.StringFixed(2))
	assert.Equal(t, "The Goonies", resp.Movie.Title)
	assert.Equal(t, at("14:54"), resp.EndTime)
}

func TestCreateScheduleMinimumGap(t *testing.T) {
	// previous showing runs 10:00 to 11:40
	tests := []struct {
		name    string
		clock   string
		wantErr bool
	}{
		{name: "overlapping", clock: "11:30", wantErr: true},
		{name: "one minute short", clock: "12:04", wantErr: true},
		{name: "exactly the gap", clock: "12:05", wantErr: false},
		{name: "well after", clock: "12:20", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			prev := fx.addMovie("Jurassic Park", 100)
			movie := fx.addMovie("The Goonies", 114)
			fx.addSchedule(prev, entity.Theatre1, at("10:00"), entity.TicketTypeWeekdayBase)
			svc := newScheduleTestService(fx)

			_, err := svc.CreateSchedule(context.Background(),
				scheduleReq(movie, entity.Theatre1, tt.clock, entity.TicketTypeWeekdayBase))
			if tt.wantErr {
				requireStartTimeErrors(t, err, 1)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateScheduleMaximumGap(t *testing.T) {
	// next showing starts at 15:00
	tests := []struct {
		name    string
		clock   string
		wantErr bool
	}{
		{name: "too early", clock: "14:14", wantErr: true},
		{name: "exactly the gap", clock: "14:15", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			movie := fx.addMovie("The Goonies", 114)
			fx.addSchedule(movie, entity.Theatre1, at("15:00"), entity.TicketTypeWeekdayBase)
			svc := newScheduleTestService(fx)

			_, err := svc.CreateSchedule(context.Background(),
				scheduleReq(movie, entity.Theatre1, tt.clock, entity.TicketTypeWeekdayBase))
			if tt.wantErr {
				requireStartTimeErrors(t, err, 1)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateScheduleReportsBothGaps(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("Jurassic Park", 120)
	fx.addSchedule(movie, entity.Theatre1, at("09:00"), entity.TicketTypeWeekdayBase)
	fx.addSchedule(movie, entity.Theatre1, at("12:00"), entity.TicketTypeWeekdayBase)
	svc := newScheduleTestService(fx)

	// 11:00 is inside the first showing and 60 minutes before the next one
	_, err := svc.CreateSchedule(context.Background(),
		scheduleReq(movie, entity.Theatre1, "11:00", entity.TicketTypeWeekdayBase))
	requireStartTimeErrors(t, err, 2)
}

func TestCreateScheduleOtherTheatreIgnored(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("Jurassic Park", 120)
	fx.addSchedule(movie, entity.Theatre2, at("10:00"), entity.TicketTypeWeekdayBase)
	svc := newScheduleTestService(fx)

	_, err := svc.CreateSchedule(context.Background(),
		scheduleReq(movie, entity.Theatre1, "10:30", entity.TicketTypeWeekdayBase))
	require.NoError(t, err)
}

func TestCreateScheduleSameStartRejected(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("Jurassic Park", 120)
	fx.addSchedule(movie, entity.Theatre1, at("10:00"), entity.TicketTypeWeekdayBase)
	svc := newScheduleTestService(fx)

	_, err := svc.CreateSchedule(context.Background(),
		scheduleReq(movie, entity.Theatre1, "10:00", entity.TicketTypeWeekdayBase))
	requireStartTimeErrors(t, err, 1)
}

func TestCreateScheduleRequestErrors(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("Jurassic Park", 120)
	svc := newScheduleTestService(fx)

	t.Run("invalid theatre", func(t *testing.T) {
		req := scheduleReq(movie, "theatre_9", "10:00", entity.TicketTypeWeekdayBase)
		_, err := svc.CreateSchedule(context.Background(), req)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "theatre")
	})

	t.Run("unknown movie", func(t *testing.T) {
		req := scheduleReq(movie, entity.Theatre1, "10:00", entity.TicketTypeWeekdayBase)
		req.MovieID = "6f1c9f4e-8d1a-4c55-9b8e-2f0f2a6f4b11"
		_, err := svc.CreateSchedule(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestUpdateScheduleExcludesItself(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("Jurassic Park", 120)
	existing := fx.addSchedule(movie, entity.Theatre1, at("10:00"), entity.TicketTypeWeekdayBase)
	svc := newScheduleTestService(fx)

	resp, err := svc.UpdateSchedule(context.Background(), existing.ID.String(),
		scheduleReq(movie, entity.Theatre1, "10:10", entity.TicketTypeWeekends))
	require.NoError(t, err)

	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.Equal(t, at("10:10"), resp.StartTime)
	assert.Equal(t, 4, resp.PriceID)
}

func TestUpdateScheduleNotFound(t *testing.T) {
	fx := newFixture()
	movie := fx.addMovie("Jurassic Park", 120)
	svc := newScheduleTestService(fx)

	_, err := svc.UpdateSchedule(context.Background(), "6f1c9f4e-8d1a-4c55-9b8e-2f0f2a6f4b11",
		scheduleReq(movie, entity.Theatre1, "10:00", entity.TicketTypeWeekdayBase))
	require.Error(t, err)
	assert.Equal(t, "schedule not found", err.Error())
}

func TestParseSearchTime(t *testing.T) {
	got, ok := parseSearchTime("2026-03-02T10:00")
	require.True(t, ok)
	assert.Equal(t, at("10:00"), got)

	got, ok = parseSearchTime("3/2/2026 10:00 AM")
	require.True(t, ok)
	assert.Equal(t, at("10:00"), got)

	_, ok = parseSearchTime("goonies")
	assert.False(t, ok)
}

func TestBuildScheduleFilter(t *testing.T) {
	filter, err := buildScheduleFilter(&request.ScheduleFilterRequest{
		Theatre:   "theatre_2",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-05",
		Search:    "  hobbit ",
	})
	require.NoError(t, err)

	require.NotNil(t, filter.Theatre)
	assert.Equal(t, entity.Theatre2, *filter.Theatre)
	require.NotNil(t, filter.Search)
	assert.Equal(t, "hobbit", *filter.Search)
	assert.Nil(t, filter.SearchTime)
	assert.Nil(t, filter.MovieID)
	assert.Equal(t, 5, filter.EndDate.Day())
}
