package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Data     any   `json:"data"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// respondError maps domain errors onto HTTP status codes. Unknown errors are
// logged and returned as an opaque 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrConflict):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrVehicleNotApproved),
		errors.Is(err, service.ErrOwnVehicle):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCredentialInvalid):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled service error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
