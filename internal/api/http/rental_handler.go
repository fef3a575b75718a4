package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type createRentalRequest struct {
	VehicleID     int32     `json:"vehicle_id"`
	StartDateTime time.Time `json:"start_datetime"`
	EndDateTime   time.Time `json:"end_datetime"`
	PhoneNumber   string    `json:"phone_number"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.rentalSvc.CreateRental(r.Context(), userIDFrom(r), req.VehicleID, req.StartDateTime, req.EndDateTime, req.PhoneNumber)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) PayDeposit(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.PayDeposit(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

type ownerDecisionRequest struct {
	Approve bool `json:"approve"`
}

func (h *RentalHandler) OwnerDecide(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ownerDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentalSvc.OwnerDecide(r.Context(), userIDFrom(r), rentalID, req.Approve)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) PayRemaining(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.PayRemaining(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ConfirmHandOff(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.ConfirmHandOff(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.ConfirmReturn(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.CancelRental(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	status, page, pageSize := listParams(r)
	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), userIDFrom(r), status, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Data: rentals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RentalHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	status, page, pageSize := listParams(r)
	rentals, total, err := h.rentalSvc.ListLendings(r.Context(), userIDFrom(r), status, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Data: rentals, Total: total, Page: page, PageSize: pageSize})
}

// GetAvailability returns the occupied windows of a vehicle for one month so
// clients can render a booking calendar.
func (h *RentalHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathID(w, r)
	if !ok {
		return
	}
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	windows, err := h.rentalSvc.ListMonthConflicts(r.Context(), vehicleID, month, year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"occupied": windows})
}

func pathID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return int32(id), true
}

func listParams(r *http.Request) (status string, page, pageSize int32) {
	q := r.URL.Query()
	status = q.Get("status")
	p, _ := strconv.Atoi(q.Get("page"))
	ps, _ := strconv.Atoi(q.Get("page_size"))
	return status, int32(p), int32(ps)
}
