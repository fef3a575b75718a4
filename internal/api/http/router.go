package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/security"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Rental       *RentalHandler
	Contract     *ContractHandler
	Notification *NotificationHandler
}

// NewRouter builds the full route table. Everything under /api/v1 except
// login requires a valid access token.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	// Rental lifecycle
	authed.HandleFunc("/rentals", h.Rental.CreateRental).Methods(http.MethodPost)
	authed.HandleFunc("/rentals", h.Rental.ListRentals).Methods(http.MethodGet)
	authed.HandleFunc("/lendings", h.Rental.ListLendings).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}", h.Rental.GetRental).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}/deposit", h.Rental.PayDeposit).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/decision", h.Rental.OwnerDecide).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/payment", h.Rental.PayRemaining).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/handoff", h.Rental.ConfirmHandOff).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/return", h.Rental.ConfirmReturn).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/cancel", h.Rental.CancelRental).Methods(http.MethodPost)
	authed.HandleFunc("/vehicles/{id}/availability", h.Rental.GetAvailability).Methods(http.MethodGet)

	// Contracts
	authed.HandleFunc("/rentals/{id}/contract-preview", h.Contract.PreviewContract).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}/contracts", h.Contract.CreateContract).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/contracts", h.Contract.ListContracts).Methods(http.MethodGet)
	authed.HandleFunc("/contracts/{id}", h.Contract.GetContract).Methods(http.MethodGet)
	authed.HandleFunc("/contracts/{id}/sign", h.Contract.SignContract).Methods(http.MethodPost)

	// Notifications
	authed.HandleFunc("/notifications", h.Notification.ListNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return r
}
