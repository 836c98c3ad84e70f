package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"movie-ticketing/cmd"
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/internal/wire"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/database"
	"movie-ticketing/pkg/queue"
	"movie-ticketing/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.ApplySchema(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Schema applied")
	}

	rdb := cache.NewRedisClient(config.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, wire.Deps{
		DB:        db,
		Redis:     rdb,
		Publisher: queue.NewPublisher(config.RabbitMQ, logger),
	}, config, logger)

	if config.Seed.OnStart {
		result, err := app.Service.Seed.Seed(ctx)
		if err != nil {
			logger.Fatal("Seeding failed", zap.Error(err))
		}
		logger.Info("Seed completed on start", zap.Int("errors", len(result.Errors)))
	}

	go cleanSessions(ctx, repos.Session, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// cleanSessions drops long-expired sessions once an hour until ctx is done.
func cleanSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
