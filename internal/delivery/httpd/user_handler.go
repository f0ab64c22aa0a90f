package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetChildSummary(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childId")

	summary, err := h.summaryService.SummarizeChild(r.Context(), childID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, summary)
}

func (h *Handler) GetParentSummary(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "parentId")

	summary, err := h.summaryService.SummarizeParent(r.Context(), parentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, summary)
}

func (h *Handler) GetChildren(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "parentId")

	children, err := h.userService.GetChildren(r.Context(), parentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, children)
}

func (h *Handler) GetXP(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	xp, err := h.userService.GetXP(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, xp)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.userService.GetLeaderboard(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, entries)
}
