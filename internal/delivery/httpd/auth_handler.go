package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gameup-app/gameup-backend/internal/models"
)

func (h *Handler) SignupParent(w http.ResponseWriter, r *http.Request) {
	var req models.SignupParentRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.SignupParent(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, response)
}

func (h *Handler) SignupChild(w http.ResponseWriter, r *http.Request) {
	var req models.SignupChildRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.SignupChild(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, response)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")

	var req models.LoginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), role, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}
