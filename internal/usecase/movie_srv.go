package usecase

import (
	"context"
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

type MovieService interface {
	GetMovies(ctx context.Context, req *request.PaginatedRequest, filter repository.MovieFilter) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	repo  *repository.Repository
	cache cache.Invalidator
	log   *zap.Logger
	now   func() time.Time
}

func NewMovieService(
	repo *repository.Repository,
	invalidator cache.Invalidator,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:  repo,
		cache: invalidator,
		log:   log.With(zap.String("service", "movie")),
		now:   time.Now,
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.PaginatedRequest, filter repository.MovieFilter) (*response.PaginatedResponse[response.MovieResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	movies, err := s.repo.Movie.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", limit),
		)
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count movies", zap.Error(err))
		return nil, fmt.Errorf("count movies: %w", err)
	}

	data := make([]response.MovieResponse, 0, len(movies))
	for _, m := range movies {
		data = append(data, response.MovieToResponse(m))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID")
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie not found")
	}

	avg, count, err := s.repo.Review.GetMovieReviewStats(ctx, id)
	if err != nil {
		// stats are decoration; the movie itself is still served
		s.log.Warn("Failed to get review stats", zap.Error(err), zap.String("movie_id", movieID))
	}

	resp := response.MovieToDetailResponse(movie, avg, count)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Movie validation failed", zap.Any("errors", errs))
		return nil, fromFieldMap(errs)
	}

	title := strings.TrimSpace(req.Title)
	existing, err := s.repo.Movie.FindByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("movie %q already exists", title)
	}

	movie := &entity.Movie{
		Base:           entity.NewBase(s.now()),
		Title:          title,
		Description:    req.Description,
		MPAARating:     entity.MPAARating(req.MPAARating),
		RuntimeMinutes: req.RuntimeMinutes,
		Genre:          req.Genre,
	}

	if req.ReleaseDate != nil {
		date, err := time.Parse(time.DateOnly, *req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid release_date: %w", err)
		}
		movie.ReleaseDate = &date
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", title))
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.cache.Invalidate(ctx, cache.GroupMovies)
	s.log.Info("Movie created", zap.String("movie_id", movie.ID.String()), zap.String("title", title))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie not found")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if !strings.EqualFold(title, movie.Title) {
			other, err := s.repo.Movie.FindByTitle(ctx, title)
			if err != nil {
				return nil, fmt.Errorf("check title: %w", err)
			}
			if other != nil && other.ID != movie.ID {
				return nil, fmt.Errorf("movie %q already exists", title)
			}
		}
		movie.Title = title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.MPAARating != nil {
		movie.MPAARating = entity.MPAARating(*req.MPAARating)
	}
	if req.RuntimeMinutes != nil {
		movie.RuntimeMinutes = *req.RuntimeMinutes
	}
	if req.Genre != nil {
		movie.Genre = req.Genre
	}
	if req.ReleaseDate != nil {
		date, err := time.Parse(time.DateOnly, *req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid release_date: %w", err)
		}
		movie.ReleaseDate = &date
	}
	movie.UpdatedAt = s.now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		s.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("update movie: %w", err)
	}

	// runtime and titles show up in schedule listings too
	s.cache.Invalidate(ctx, cache.GroupMovies, cache.GroupSchedules)
	s.log.Info("Movie updated", zap.String("movie_id", movieID))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return fmt.Errorf("invalid movie ID")
	}

	exists, err := s.repo.Movie.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check movie: %w", err)
	}
	if !exists {
		return fmt.Errorf("movie not found")
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete movie", zap.Error(err), zap.String("movie_id", movieID))
		return fmt.Errorf("delete movie: %w", err)
	}

	s.cache.Invalidate(ctx, cache.GroupMovies, cache.GroupSchedules, cache.GroupReviews)
	s.log.Info("Movie deleted", zap.String("movie_id", movieID))
	return nil
}
