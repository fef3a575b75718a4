package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type ContractHandler struct {
	contractSvc service.ContractService
}

func NewContractHandler(contractSvc service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

// PreviewContract shows the owner what the contract would contain before
// committing to it.
func (h *ContractHandler) PreviewContract(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := h.contractSvc.PrepareContract(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

type createContractRequest struct {
	ConditionNotes string `json:"condition_notes"`
}

func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req createContractRequest
	if !decodeBody(w, r, &req) {
		return
	}
	contract, err := h.contractSvc.CreateContract(r.Context(), userIDFrom(r), rentalID, req.ConditionNotes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	contracts, err := h.contractSvc.ListContractsByRental(r.Context(), userIDFrom(r), rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": contracts})
}

func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	contractID := mux.Vars(r)["id"]
	contract, err := h.contractSvc.GetContract(r.Context(), userIDFrom(r), contractID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contract)
}

type signContractRequest struct {
	Decision string `json:"decision"` // "SIGNED" or "REJECTED"
	Password string `json:"password"`
}

func (h *ContractHandler) SignContract(w http.ResponseWriter, r *http.Request) {
	contractID := mux.Vars(r)["id"]
	var req signContractRequest
	if !decodeBody(w, r, &req) {
		return
	}

	decision := domain.ContractStatus(req.Decision)
	if decision != domain.ContractStatusSigned && decision != domain.ContractStatusRejected {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "decision must be SIGNED or REJECTED"})
		return
	}

	contract, err := h.contractSvc.SignContract(r.Context(), userIDFrom(r), contractID, decision, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contract)
}
