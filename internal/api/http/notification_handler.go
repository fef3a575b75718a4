package httpapi

import (
	"net/http"

	"driveshare-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	_, page, pageSize := listParams(r)
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Data: notes, Total: total, Page: page, PageSize: pageSize})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	noteID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), userIDFrom(r), noteID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
