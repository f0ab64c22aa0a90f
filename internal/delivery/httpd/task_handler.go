package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gameup-app/gameup-backend/internal/models"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ParentID == "" || req.ChildID == "" {
		writeError(w, http.StatusBadRequest, "parent_id and child_id are required")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, task)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	role := r.URL.Query().Get("role")

	if userID == "" || role == "" {
		writeError(w, http.StatusBadRequest, "user_id and role query parameters are required")
		return
	}

	tasks, err := h.taskService.ListTasksByRole(r.Context(), userID, role)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, tasks)
}

func (h *Handler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "Task ID is required")
		return
	}

	task, err := h.taskService.GetTaskByID(r.Context(), taskID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, task)
}
