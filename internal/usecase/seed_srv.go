package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/internal/dto/response"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedService loads the fixed price table and demo catalogue. Running it
// twice is safe.
type SeedService interface {
	Seed(ctx context.Context) (*response.SeedResponse, error)
}

const errSeedPasswordMissing = "users not seeded: SEED_PASSWORD is not set"

type seedService struct {
	repo   *repository.Repository
	config *utils.Config
	cache  cache.Invalidator
	log    *zap.Logger
	now    func() time.Time
}

func NewSeedService(repo *repository.Repository, config *utils.Config, invalidator cache.Invalidator, log *zap.Logger) SeedService {
	return &seedService{
		repo:   repo,
		config: config,
		cache:  invalidator,
		log:    log.With(zap.String("service", "seed")),
		now:    time.Now,
	}
}

func (s *seedService) Seed(ctx context.Context) (*response.SeedResponse, error) {
	resp := &response.SeedResponse{}

	if err := s.seedPrices(ctx, resp); err != nil {
		return nil, err
	}

	movies := s.seedMovies(ctx, resp)

	customers := map[string]uuid.UUID{}
	if s.config.Seed.Password == "" {
		s.log.Warn("SEED_PASSWORD is not set, seed accounts skipped")
		resp.Errors = append(resp.Errors, errSeedPasswordMissing)
	} else {
		if _, err := s.seedUsers(ctx, seedAdmins, &resp.Admins, &resp.Errors); err != nil {
			return nil, err
		}
		var err error
		customers, err = s.seedUsers(ctx, seedCustomers, &resp.Customers, &resp.Errors)
		if err != nil {
			return nil, err
		}
	}
	s.seedReviews(ctx, resp, movies, customers)

	s.cache.Invalidate(ctx, cache.GroupPrices, cache.GroupMovies, cache.GroupSchedules, cache.GroupReviews)

	s.log.Info("Seed finished",
		zap.Any("prices", resp.Prices),
		zap.Any("movies", resp.Movies),
		zap.Any("admins", resp.Admins),
		zap.Any("customers", resp.Customers),
		zap.Any("reviews", resp.Reviews),
		zap.Int("errors", len(resp.Errors)))

	return resp, nil
}

// prices are the only step whose failure aborts the run; schedules cannot
// exist without them.
func (s *seedService) seedPrices(ctx context.Context, resp *response.SeedResponse) error {
	for _, p := range seedPrices {
		price := p
		price.UpdatedAt = s.now()

		inserted, err := s.repo.Price.Upsert(ctx, &price)
		if err != nil {
			return fmt.Errorf("seed price %s: %w", price.TicketType, err)
		}
		if inserted {
			resp.Prices.Added++
		} else {
			resp.Prices.Updated++
		}
	}
	return nil
}

func (s *seedService) seedMovies(ctx context.Context, resp *response.SeedResponse) map[string]uuid.UUID {
	ids := make(map[string]uuid.UUID, len(seedMovies))

	for _, m := range seedMovies {
		existing, err := s.repo.Movie.FindByTitle(ctx, m.Title)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("movie %q: %v", m.Title, err))
			continue
		}
		if existing != nil {
			ids[m.Title] = existing.ID
			resp.Movies.Skipped++
			continue
		}

		genre := m.Genre
		movie := &entity.Movie{
			Base:           entity.NewBase(s.now()),
			Title:          m.Title,
			Description:    m.Description,
			MPAARating:     m.Rating,
			RuntimeMinutes: m.RuntimeMinutes,
			Genre:          &genre,
			ReleaseDate:    mustDate(m.Released),
		}
		if err := s.repo.Movie.Create(ctx, movie); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("movie %q: %v", m.Title, err))
			continue
		}

		ids[m.Title] = movie.ID
		resp.Movies.Added++
	}

	return ids
}

func (s *seedService) seedUsers(ctx context.Context, users []seedUser, count *response.SeedCount, errs *[]string) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(users))

	// one hash serves every seeded account
	hashed, err := utils.HashPassword(s.config.Seed.Password, s.config.Session.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	for _, c := range users {
		existing, err := s.repo.User.FindByUsername(ctx, c.Username)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("user %q: %v", c.Username, err))
			continue
		}
		if existing != nil {
			ids[c.Username] = existing.ID
			count.Skipped++
			continue
		}

		address, city, state, zip, phone := c.Address, c.City, c.State, c.Zip, c.Phone
		user := &entity.User{
			Base:         entity.NewBase(s.now()),
			Username:     c.Username,
			Email:        c.Username + "@example.com",
			PasswordHash: hashed,
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			DateOfBirth:  mustDate(c.Birthday),
			AddressLine1: &address,
			City:         &city,
			State:        &state,
			Zip:          &zip,
			Phone:        &phone,
			Role:         c.Role,
			IsActive:     true,
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			*errs = append(*errs, fmt.Sprintf("user %q: %v", c.Username, err))
			continue
		}

		ids[c.Username] = user.ID
		count.Added++
	}

	return ids, nil
}

func (s *seedService) seedReviews(ctx context.Context, resp *response.SeedResponse, movies, customers map[string]uuid.UUID) {
	for _, r := range seedReviews {
		movieID, ok := movies[r.Movie]
		if !ok {
			resp.Reviews.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("review by %s: movie %q not seeded", r.Customer, r.Movie))
			continue
		}
		userID, ok := customers[r.Customer]
		if !ok {
			resp.Reviews.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("review of %q: customer %s not seeded", r.Movie, r.Customer))
			continue
		}

		review := &entity.Review{
			BaseNoDelete: entity.NewBaseNoDelete(s.now()),
			UserID:       userID,
			MovieID:      movieID,
			Rating:       r.Rating,
			Description:  r.Description,
			Status:       r.Status,
		}

		inserted, err := s.repo.Review.Upsert(ctx, review)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("review of %q by %s: %v", r.Movie, r.Customer, err))
			continue
		}
		if inserted {
			resp.Reviews.Added++
		} else {
			resp.Reviews.Updated++
		}
	}
}
