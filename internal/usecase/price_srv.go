package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"movie-ticketing/internal/data/repository"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/dto/response"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type PriceService interface {
	GetPrices(ctx context.Context) ([]response.PriceResponse, error)
	UpdatePrice(ctx context.Context, priceID string, req *request.UpdatePriceRequest) (*response.PriceResponse, error)
}

type priceService struct {
	repo  *repository.Repository
	cache cache.Invalidator
	log   *zap.Logger
	now   func() time.Time
}

func NewPriceService(repo *repository.Repository, invalidator cache.Invalidator, log *zap.Logger) PriceService {
	return &priceService{
		repo:  repo,
		cache: invalidator,
		log:   log.With(zap.String("service", "price")),
		now:   time.Now,
	}
}

func (s *priceService) GetPrices(ctx context.Context) ([]response.PriceResponse, error) {
	prices, err := s.repo.Price.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get prices", zap.Error(err))
		return nil, fmt.Errorf("get prices: %w", err)
	}

	data := make([]response.PriceResponse, 0, len(prices))
	for _, p := range prices {
		data = append(data, response.PriceToResponse(p))
	}
	return data, nil
}

func (s *priceService) UpdatePrice(ctx context.Context, priceID string, req *request.UpdatePriceRequest) (*response.PriceResponse, error) {
	id, err := strconv.Atoi(priceID)
	if err != nil {
		return nil, fmt.Errorf("invalid price ID")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fromFieldMap(errs)
	}
	if req.TicketPrice.IsNegative() {
		v := NewValidationError()
		v.Add("ticket_price", "Must be at least 0")
		return nil, v
	}

	price, err := s.repo.Price.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get price: %w", err)
	}
	if price == nil {
		return nil, fmt.Errorf("price not found")
	}

	price.TicketPrice = req.TicketPrice.Round(2)
	price.UpdatedAt = s.now()

	if err := s.repo.Price.Update(ctx, price); err != nil {
		s.log.Error("Failed to update price", zap.Error(err), zap.Int("price_id", id))
		return nil, fmt.Errorf("update price: %w", err)
	}

	// schedule listings embed the amount
	s.cache.Invalidate(ctx, cache.GroupPrices, cache.GroupSchedules)
	s.log.Info("Price updated",
		zap.Int("price_id", id),
		zap.String("ticket_type", string(price.TicketType)),
		zap.String("ticket_price", price.TicketPrice.StringFixed(2)))

	resp := response.PriceToResponse(price)
	return &resp, nil
}
