package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reviewFixture struct {
	*fixture
	svc      ReviewService
	customer Actor
	movie    *entity.Movie
}

func newReviewFixture() *reviewFixture {
	fx := newFixture()
	customer := fx.addUser(entity.RoleCustomer)

	return &reviewFixture{
		fixture:  fx,
		svc:      NewReviewService(fx.repo, cache.NoopInvalidator{}, zap.NewNop()),
		customer: Actor{UserID: customer.ID, Role: entity.RoleCustomer},
		movie:    fx.addMovie("The Goonies", 114),
	}
}

func (rf *reviewFixture) review(t *testing.T, actor Actor, rating int) string {
	t.Helper()
	resp, err := rf.svc.CreateReview(context.Background(), actor, &request.CreateReviewRequest{
		MovieID:     rf.movie.ID.String(),
		Rating:      rating,
		Description: "Great family adventure",
	})
	require.NoError(t, err)
	return resp.ID
}

func (rf *reviewFixture) approve(t *testing.T, id string) {
	t.Helper()
	_, err := rf.svc.UpdateReviewStatus(context.Background(), id,
		&request.UpdateReviewStatusRequest{Status: string(entity.ReviewStatusApproved)})
	require.NoError(t, err)
}

func (rf *reviewFixture) newCustomer() Actor {
	return Actor{UserID: rf.addUser(entity.RoleCustomer).ID, Role: entity.RoleCustomer}
}

func TestCreateReviewStartsUnmoderated(t *testing.T) {
	rf := newReviewFixture()

	resp, err := rf.svc.CreateReview(context.Background(), rf.customer, &request.CreateReviewRequest{
		MovieID: rf.movie.ID.String(),
		Rating:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReviewStatusNeedsReview, resp.Status)
	assert.Equal(t, rf.customer.UserID.String(), resp.UserID)
	assert.Equal(t, "The Goonies", resp.MovieTitle)
	assert.NotEmpty(t, resp.Username)
}

func TestCreateReviewOnePerUserPerMovie(t *testing.T) {
	rf := newReviewFixture()
	ctx := context.Background()
	rf.review(t, rf.customer, 4)

	_, err := rf.svc.CreateReview(ctx, rf.customer, &request.CreateReviewRequest{MovieID: rf.movie.ID.String(), Rating: 1})
	require.Error(t, err)
	assert.Equal(t, "movie already reviewed by this user", err.Error())

	// another movie, or another customer, is fine
	other := rf.addMovie("Jurassic Park", 127)
	_, err = rf.svc.CreateReview(ctx, rf.customer, &request.CreateReviewRequest{MovieID: other.ID.String(), Rating: 5})
	require.NoError(t, err)
	rf.review(t, rf.newCustomer(), 3)

	assert.Len(t, rf.reviews.reviews, 3)
}

func TestCreateReviewRequestErrors(t *testing.T) {
	rf := newReviewFixture()

	tests := []struct {
		name      string
		req       *request.CreateReviewRequest
		wantField string
		wantErr   string
	}{
		{name: "rating too high", req: &request.CreateReviewRequest{MovieID: rf.movie.ID.String(), Rating: 6}, wantField: "rating"},
		{name: "rating missing", req: &request.CreateReviewRequest{MovieID: rf.movie.ID.String()}, wantField: "rating"},
		{name: "movie id not a uuid", req: &request.CreateReviewRequest{MovieID: "goonies", Rating: 3}, wantField: "movie_id"},
		{name: "unknown movie", req: &request.CreateReviewRequest{MovieID: uuid.NewString(), Rating: 3}, wantErr: "movie not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rf.svc.CreateReview(context.Background(), rf.customer, tt.req)
			require.Error(t, err)
			if tt.wantField != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				assert.Contains(t, verr.Fields, tt.wantField)
				return
			}
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestMovieReviewsListApprovedOnly(t *testing.T) {
	rf := newReviewFixture()
	ctx := context.Background()

	approved := rf.review(t, rf.customer, 5)
	rf.approve(t, approved)
	rf.review(t, rf.newCustomer(), 1)

	page := &request.PaginatedRequest{Page: 1, PerPage: 10}
	public, err := rf.svc.GetMovieReviews(ctx, rf.movie.ID.String(), page)
	require.NoError(t, err)
	require.Len(t, public.Data, 1)
	assert.Equal(t, approved, public.Data[0].ID)
	assert.Equal(t, int64(1), public.Pagination.Total)

	pendingStatus := entity.ReviewStatusNeedsReview
	queue, err := rf.svc.GetReviews(ctx, &pendingStatus, page)
	require.NoError(t, err)
	require.Len(t, queue.Data, 1)
	assert.Equal(t, 1, queue.Data[0].Rating)

	all, err := rf.svc.GetReviews(ctx, nil, page)
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)

	// the author still sees their own unmoderated review
	mine, err := rf.svc.GetUserReviews(ctx, rf.customer.UserID, page)
	require.NoError(t, err)
	assert.Len(t, mine.Data, 1)
}

func TestMovieReviewsUnknownMovie(t *testing.T) {
	rf := newReviewFixture()

	_, err := rf.svc.GetMovieReviews(context.Background(), uuid.NewString(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.Error(t, err)
	assert.Equal(t, "movie not found", err.Error())

	_, err = rf.svc.GetMovieReviews(context.Background(), "goonies", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestGetReviewsRejectsUnknownStatus(t *testing.T) {
	rf := newReviewFixture()
	status := entity.ReviewStatus("hidden")

	_, err := rf.svc.GetReviews(context.Background(), &status, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid review status")
}

func TestUpdateReviewReturnsToModeration(t *testing.T) {
	rf := newReviewFixture()
	ctx := context.Background()
	id := rf.review(t, rf.customer, 5)
	rf.approve(t, id)

	edited := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	rf.svc.(*reviewService).now = func() time.Time { return edited }

	rating := 2
	resp, err := rf.svc.UpdateReview(ctx, rf.customer, id, &request.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, entity.ReviewStatusNeedsReview, resp.Status)
	assert.Equal(t, 2, resp.Rating)
	assert.Equal(t, "Great family adventure", resp.Description)
	assert.Equal(t, edited, resp.UpdatedAt)

	public, err := rf.svc.GetMovieReviews(ctx, rf.movie.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, public.Data)
}

func TestReviewOwnership(t *testing.T) {
	rf := newReviewFixture()
	ctx := context.Background()
	id := rf.review(t, rf.customer, 4)
	other := rf.newCustomer()

	rating := 1
	_, err := rf.svc.UpdateReview(ctx, other, id, &request.UpdateReviewRequest{Rating: &rating})
	require.Error(t, err)
	assert.Equal(t, "forbidden: not your review", err.Error())

	err = rf.svc.DeleteReview(ctx, other, id)
	require.Error(t, err)
	assert.Equal(t, "forbidden: not your review", err.Error())

	admin := Actor{UserID: rf.addUser(entity.RoleAdmin).ID, Role: entity.RoleAdmin}
	require.NoError(t, rf.svc.DeleteReview(ctx, admin, id))

	err = rf.svc.DeleteReview(ctx, rf.customer, id)
	require.Error(t, err)
	assert.Equal(t, "review not found", err.Error())
}

func TestUpdateReviewStatusValidation(t *testing.T) {
	rf := newReviewFixture()
	id := rf.review(t, rf.customer, 4)

	_, err := rf.svc.UpdateReviewStatus(context.Background(), id, &request.UpdateReviewStatusRequest{Status: "hidden"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "status")
}
