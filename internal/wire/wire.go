package wire

import (
	"net/http"

	"movie-ticketing/internal/adaptor"
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/database"
	"movie-ticketing/pkg/middleware"
	"movie-ticketing/pkg/queue"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the assembled router and services.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the infrastructure handles built in main.
type Deps struct {
	DB        database.PgxIface
	Redis     *redis.Client
	Publisher queue.Publisher
}

// Wiring builds services and handlers and mounts every route.
func Wiring(repo *repository.Repository, deps Deps, config *utils.Config, logger *zap.Logger) *App {
	invalidator := cache.NewInvalidator(deps.Redis, config.Cache.Prefix, logger)

	service := usecase.NewService(repo, config, invalidator, deps.Publisher, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, deps, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	deps Deps,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	rt := routes{
		repo:   repo,
		rdb:    deps.Redis,
		config: config,
		log:    logger,
	}

	wireAuth(r, handler.Auth, rt)
	wireUser(r, handler.User, rt)
	wireMovie(r, handler.Movie, rt)
	wirePrice(r, handler.Price, rt)
	wireSchedule(r, handler.Schedule, rt)
	wireTransaction(r, handler.Transaction, handler.TransactionDetail, rt)
	wireReview(r, handler.Review, rt)
	wireSeed(r, handler.Seed, rt)

	r.Get("/health", health(deps.DB, logger))

	return r
}

// routes carries what the per-area wiring needs to build middleware.
type routes struct {
	repo   *repository.Repository
	rdb    *redis.Client
	config *utils.Config
	log    *zap.Logger
}

func (rt routes) auth() func(http.Handler) http.Handler {
	return middleware.AuthSession(rt.repo.Session, rt.config.Session.CookieName, rt.log)
}

func (rt routes) admin() func(http.Handler) http.Handler {
	return middleware.Admin(rt.log)
}

func (rt routes) cached(group string) func(http.Handler) http.Handler {
	return cache.Middleware(rt.rdb, rt.config.Cache, group, rt.log)
}

func health(db database.PgxIface, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			utils.ResponseSuccess(w, "OK", nil)
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			log.Error("Health check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "Database unavailable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
