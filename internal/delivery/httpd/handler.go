package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/service"
	"github.com/gameup-app/gameup-backend/pkg/token"
)

type Handler struct {
	authService         service.AuthService
	taskService         service.TaskService
	submissionService   service.SubmissionService
	summaryService      service.SummaryService
	userService         service.UserService
	notificationService service.NotificationService
	tokens              *token.Manager
	uploadLimit         int64
	logger              zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	taskService service.TaskService,
	submissionService service.SubmissionService,
	summaryService service.SummaryService,
	userService service.UserService,
	notificationService service.NotificationService,
	tokens *token.Manager,
	uploadLimit int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:         authService,
		taskService:         taskService,
		submissionService:   submissionService,
		summaryService:      summaryService,
		userService:         userService,
		notificationService: notificationService,
		tokens:              tokens,
		uploadLimit:         uploadLimit,
		logger:              logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/signup/parent", h.SignupParent)
			r.Post("/signup/child", h.SignupChild)
			r.Post("/login/{role}", h.Login)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(h.Authenticated)

			protected.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.CreateTask)
				r.Get("/", h.ListTasks)
				r.Get("/{id}", h.GetTaskByID)
			})

			protected.Route("/submissions", func(r chi.Router) {
				r.Post("/", h.CreateSubmission)
				r.Get("/{id}", h.GetSubmissionByID)
				r.Post("/{id}/review", h.ReviewSubmission)
				r.Get("/child/{childId}", h.GetSubmissionsByChild)
				r.Get("/task/{taskId}", h.GetSubmissionsByTask)
				r.Get("/parent/{parentId}", h.GetSubmissionsByParent)
				r.Get("/status/{taskId}/{childId}", h.GetSubmissionState)
			})

			protected.Route("/children", func(r chi.Router) {
				r.Get("/{childId}/summary", h.GetChildSummary)
			})

			protected.Route("/parents", func(r chi.Router) {
				r.Get("/{parentId}/summary", h.GetParentSummary)
				r.Get("/{parentId}/children", h.GetChildren)
			})

			protected.Route("/users", func(r chi.Router) {
				r.Get("/leaderboard", h.GetLeaderboard)
				r.Get("/{id}/xp", h.GetXP)
			})

			protected.Route("/notifications", func(r chi.Router) {
				r.Get("/child/{childId}", h.GetNotificationsByChild)
				r.Put("/{id}/read", h.MarkNotificationRead)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "gameup-backend",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func readJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// handleServiceError translates service sentinel errors into HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrParentNotFound),
		errors.Is(err, service.ErrChildNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidReviewStatus),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateSubmission),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrFileTypeBlocked):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
