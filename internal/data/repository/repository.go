package repository

import (
	"errors"

	"movie-ticketing/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrNoRowsAffected is returned by updates that matched nothing. Callers
// re-check existence to tell a vanished row from a state conflict.
var ErrNoRowsAffected = errors.New("no rows affected")

type Repository struct {
	User              UserRepository
	Session           SessionRepository
	Movie             MovieRepository
	Price             PriceRepository
	Schedule          ScheduleRepository
	Transaction       TransactionRepository
	TransactionDetail TransactionDetailRepository
	Review            ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:              NewUserRepository(db, log),
		Session:           NewSessionRepository(db, log),
		Movie:             NewMovieRepository(db, log),
		Price:             NewPriceRepository(db, log),
		Schedule:          NewScheduleRepository(db, log),
		Transaction:       NewTransactionRepository(db, log),
		TransactionDetail: NewTransactionDetailRepository(db, log),
		Review:            NewReviewRepository(db, log),
	}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}
