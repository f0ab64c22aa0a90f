package httpd

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gameup-app/gameup-backend/internal/models"
)

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createSubmissionMultipart(w, r)
		return
	}

	var req models.CreateSubmissionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TaskID == "" || req.ChildID == "" {
		writeError(w, http.StatusBadRequest, "task_id and child_id are required")
		return
	}

	submission, err := h.submissionService.CreateSubmission(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, submission)
}

func (h *Handler) createSubmissionMultipart(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadLimit+1<<20)

	if err := r.ParseMultipartForm(h.uploadLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	req := models.CreateSubmissionRequest{
		TaskID:         r.FormValue("task_id"),
		ChildID:        r.FormValue("child_id"),
		SubmissionText: r.FormValue("submission_text"),
	}

	if req.TaskID == "" || req.ChildID == "" {
		writeError(w, http.StatusBadRequest, "task_id and child_id are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		content, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}
		req.FileContent = content
		req.FileName = header.Filename
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "Invalid file field")
		return
	}

	submission, err := h.submissionService.CreateSubmission(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, submission)
}

func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required")
		return
	}

	var req models.ReviewSubmissionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	submission, err := h.submissionService.ReviewSubmission(r.Context(), submissionID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submission)
}

func (h *Handler) GetSubmissionByID(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required")
		return
	}

	submission, err := h.submissionService.GetSubmissionByID(r.Context(), submissionID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submission)
}

func (h *Handler) GetSubmissionsByChild(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childId")

	submissions, err := h.submissionService.GetSubmissionsByChild(r.Context(), childID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submissions)
}

func (h *Handler) GetSubmissionsByTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")

	submissions, err := h.submissionService.GetSubmissionsByTask(r.Context(), taskID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submissions)
}

func (h *Handler) GetSubmissionsByParent(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "parentId")
	pendingOnly := r.URL.Query().Get("pending") == "true"

	submissions, err := h.submissionService.GetSubmissionsByParent(r.Context(), parentID, pendingOnly)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submissions)
}

func (h *Handler) GetSubmissionState(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	childID := chi.URLParam(r, "childId")

	state, err := h.submissionService.GetSubmissionState(r.Context(), taskID, childID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, state)
}
