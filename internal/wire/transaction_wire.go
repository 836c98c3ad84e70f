package wire

import (
	"movie-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Ownership is enforced by the services, so customers and admins share these routes.
func wireTransaction(
	r chi.Router,
	txnHandler *adaptor.TransactionHandler,
	detailHandler *adaptor.TransactionDetailHandler,
	rt routes,
) {
	r.Route("/api/transactions", func(r chi.Router) {
		r.Use(rt.auth())

		r.Get("/", txnHandler.GetTransactions)
		r.Post("/", txnHandler.CreateTransaction)
		r.Post("/cart", txnHandler.AddToCart)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", txnHandler.GetTransactionByID)
			r.Put("/", txnHandler.UpdateTransaction)
			r.Post("/checkout", txnHandler.Checkout)
			r.Post("/cancel", txnHandler.Cancel)

			r.Get("/details", detailHandler.GetDetails)
			r.Post("/details", detailHandler.AddDetail)
		})
	})

	r.Route("/api/transaction-details", func(r chi.Router) {
		r.Use(rt.auth())

		r.Put("/{id}", detailHandler.UpdateDetail)
		r.Delete("/{id}", detailHandler.DeleteDetail)
	})
}
