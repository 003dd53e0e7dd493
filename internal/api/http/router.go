package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts every API route behind the auth middleware. The health
// endpoint stays outside it for load balancer health checks.
func NewRouter(
	auth *AuthMiddleware,
	reservations *ReservationHandler,
	folios *FolioHandler,
	hotels *HotelHandler,
	rooms *RoomHandler,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	api.HandleFunc("/reservations/{id}", reservations.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/transition", reservations.Transition).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/room-change", reservations.ChangeRoom).Methods(http.MethodPost)

	api.HandleFunc("/folios/{id}", folios.Get).Methods(http.MethodGet)
	api.HandleFunc("/folios/{id}/adjustments", folios.AddAdjustment).Methods(http.MethodPost)
	api.HandleFunc("/folios/{id}/payments", folios.RecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/folios/{id}/invoice", folios.GenerateInvoice).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}/void", folios.VoidPayment).Methods(http.MethodPost)

	api.HandleFunc("/hotels/{id}/business-date", hotels.BusinessDate).Methods(http.MethodGet)
	api.HandleFunc("/hotels/{id}/night-audit/close", hotels.CloseDay).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{id}/night-audit/reopen", hotels.ReopenDay).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{id}/night-audit/status", hotels.ClosureStatus).Methods(http.MethodGet)
	api.HandleFunc("/hotels/{id}/availability", hotels.CheckAvailability).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{id}/conflicts", hotels.RoomConflicts).Methods(http.MethodGet)
	api.HandleFunc("/hotels/{id}/overbooking", hotels.Overbooking).Methods(http.MethodGet)

	api.HandleFunc("/rooms/{id}/out-of-order", rooms.MarkOutOfOrder).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{id}/return-to-service", rooms.ReturnToService).Methods(http.MethodPost)

	return r
}
