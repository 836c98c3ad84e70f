package usecase

import (
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/queue"
	"movie-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth              AuthService
	User              UserService
	Movie             MovieService
	Price             PriceService
	Schedule          ScheduleService
	Transaction       TransactionService
	TransactionDetail TransactionDetailService
	Review            ReviewService
	Seed              SeedService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	invalidator cache.Invalidator,
	publisher queue.Publisher,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:              NewAuthService(repo, config, log),
		User:              NewUserService(repo, config, log),
		Movie:             NewMovieService(repo, invalidator, log),
		Price:             NewPriceService(repo, invalidator, log),
		Schedule:          NewScheduleService(repo, config, invalidator, log),
		Transaction:       NewTransactionService(repo, config, publisher, log),
		TransactionDetail: NewTransactionDetailService(repo, log),
		Review:            NewReviewService(repo, invalidator, log),
		Seed:              NewSeedService(repo, config, invalidator, log),
	}
}
