package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetNotificationsByChild(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childId")

	notifications, err := h.notificationService.GetNotificationsByChild(r.Context(), childID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "id")

	if err := h.notificationService.MarkRead(r.Context(), notificationID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Marked as read",
	})
}
