package usecase

import (
	"testing"
	"time"

	"movie-ticketing/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func showing(title string, start time.Time, runtime int) *entity.ScheduleView {
	return &entity.ScheduleView{
		Schedule:       entity.Schedule{Theatre: entity.Theatre1, StartTime: start},
		MovieTitle:     title,
		RuntimeMinutes: runtime,
	}
}

func TestResolvePriceID(t *testing.T) {
	cases := map[entity.TicketType]int{
		entity.TicketTypeWeekdayBase:     1,
		entity.TicketTypeMatinee:         2,
		entity.TicketTypeDiscountTuesday: 3,
		entity.TicketTypeWeekends:        4,
		entity.TicketTypeSpecialEvent:    5,
	}
	for tt, want := range cases {
		assert.Equal(t, want, ResolvePriceID(tt, 0), string(tt))
		assert.Equal(t, want, ResolvePriceID(tt, 3), "mapping ignores the current id for %s", tt)
	}

	assert.Equal(t, 3, ResolvePriceID(entity.TicketType("premiere"), 3), "unmapped type keeps current id")
	assert.Equal(t, 0, ResolvePriceID("", 0))
}

func TestGapRulesPrevious(t *testing.T) {
	rules := NewGapRules(25, 45)
	prevStart := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	prev := showing("Jurassic Park", prevStart, 127)
	prevEnd := prevStart.Add(127 * time.Minute)

	tests := []struct {
		name    string
		start   time.Time
		wantErr bool
	}{
		{"right after the end", prevEnd.Add(5 * time.Minute), true},
		{"one minute short", prevEnd.Add(24 * time.Minute), true},
		{"exactly the minimum gap", prevEnd.Add(25 * time.Minute), false},
		{"well after", prevEnd.Add(40 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := rules.Check(tt.start, prev, nil)
			assert.Equal(t, tt.wantErr, errs.HasErrors())
			if tt.wantErr {
				require.Len(t, errs.Fields["start_time"], 1)
				assert.Contains(t, errs.Fields["start_time"][0], "at least 25 minutes")
			}
		})
	}
}

func TestGapRulesNext(t *testing.T) {
	rules := NewGapRules(25, 45)
	nextStart := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)
	next := showing("The Goonies", nextStart, 114)

	assert.True(t, rules.Check(nextStart.Add(-46*time.Minute), nil, next).HasErrors())
	assert.False(t, rules.Check(nextStart.Add(-45*time.Minute), nil, next).HasErrors())
	assert.False(t, rules.Check(nextStart.Add(-10*time.Minute), nil, next).HasErrors(),
		"the following showtime is compared against the candidate start only")
}

func TestGapRulesReportsBothViolations(t *testing.T) {
	rules := NewGapRules(25, 45)
	prev := showing("The Hobbit", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 144)
	next := showing("The Goonies", time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC), 114)

	// prev ends 14:24; 14:30 is too close to it and 90 minutes before next
	errs := rules.Check(time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), prev, next)

	require.True(t, errs.HasErrors())
	assert.Len(t, errs.Fields["start_time"], 2)
	assert.Contains(t, errs.Error(), "validation failed: start_time:")
}

func TestGapRulesNoNeighbours(t *testing.T) {
	errs := NewGapRules(25, 45).Check(time.Now(), nil, nil)
	assert.False(t, errs.HasErrors())
	assert.NoError(t, errs.OrNil())
}
