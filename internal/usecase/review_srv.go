package usecase

import (
	"context"
	"fmt"
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

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetMovieReviews(ctx context.Context, movieID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReviews(ctx context.Context, status *entity.ReviewStatus, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	UpdateReview(ctx context.Context, actor Actor, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	UpdateReviewStatus(ctx context.Context, reviewID string, req *request.UpdateReviewStatusRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor Actor, reviewID string) error
}

type reviewService struct {
	repo  *repository.Repository
	cache cache.Invalidator
	log   *zap.Logger
	now   func() time.Time
}

func NewReviewService(repo *repository.Repository, invalidator cache.Invalidator, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		cache: invalidator,
		log:   log.With(zap.String("service", "review")),
		now:   time.Now,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID")
	}

	exists, err := s.repo.Movie.Exists(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("check movie: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("movie not found")
	}

	existing, err := s.repo.Review.FindByUserAndMovie(ctx, actor.UserID, movieID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("movie already reviewed by this user")
	}

	review := &entity.Review{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		UserID:       actor.UserID,
		MovieID:      movieID,
		Rating:       req.Rating,
		Description:  req.Description,
		Status:       entity.ReviewStatusNeedsReview,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("movie_id", movieID.String()),
		zap.Int("rating", review.Rating))

	return s.getReview(ctx, review.ID)
}

func (s *reviewService) GetMovieReviews(ctx context.Context, movieID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID")
	}

	exists, err := s.repo.Movie.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check movie: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("movie not found")
	}

	// unmoderated reviews never reach the public listing
	approved := entity.ReviewStatusApproved
	return s.list(ctx, repository.ReviewFilter{MovieID: &id, Status: &approved}, req)
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	return s.list(ctx, repository.ReviewFilter{UserID: &userID}, req)
}

func (s *reviewService) GetReviews(ctx context.Context, status *entity.ReviewStatus, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if status != nil && *status != entity.ReviewStatusApproved && *status != entity.ReviewStatusNeedsReview {
		return nil, fmt.Errorf("invalid review status %q", *status)
	}
	return s.list(ctx, repository.ReviewFilter{Status: status}, req)
}

func (s *reviewService) list(ctx context.Context, filter repository.ReviewFilter, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, err := s.repo.Review.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get reviews", zap.Error(err))
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	total, err := s.repo.Review.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	data := make([]response.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		data = append(data, response.ReviewViewToResponse(r))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor Actor, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	view, err := s.findOwnedReview(ctx, actor, reviewID)
	if err != nil {
		return nil, err
	}

	review := view.Review
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Description != nil {
		review.Description = *req.Description
	}
	// every edit goes back through moderation
	review.Status = entity.ReviewStatusNeedsReview
	review.UpdatedAt = s.now()

	if err := s.repo.Review.Update(ctx, &review); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.GroupReviews, cache.GroupMovies)
	s.log.Info("Review updated", zap.String("review_id", reviewID))

	return s.getReview(ctx, review.ID)
}

func (s *reviewService) UpdateReviewStatus(ctx context.Context, reviewID string, req *request.UpdateReviewStatusRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, fmt.Errorf("invalid review ID")
	}

	if err := s.repo.Review.UpdateStatus(ctx, id, entity.ReviewStatus(req.Status)); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.GroupReviews, cache.GroupMovies)
	s.log.Info("Review moderated", zap.String("review_id", reviewID), zap.String("status", req.Status))

	return s.getReview(ctx, id)
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, reviewID string) error {
	view, err := s.findOwnedReview(ctx, actor, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, view.ID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.GroupReviews, cache.GroupMovies)
	s.log.Info("Review deleted", zap.String("review_id", reviewID))
	return nil
}

func (s *reviewService) findOwnedReview(ctx context.Context, actor Actor, reviewID string) (*entity.ReviewView, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, fmt.Errorf("invalid review ID")
	}

	view, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("review not found")
	}
	if !actor.canAccess(view.UserID) {
		return nil, fmt.Errorf("forbidden: not your review")
	}

	return view, nil
}

func (s *reviewService) getReview(ctx context.Context, id uuid.UUID) (*response.ReviewResponse, error) {
	view, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("review not found")
	}

	resp := response.ReviewViewToResponse(view)
	return &resp, nil
}
