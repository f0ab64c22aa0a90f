package httpd

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/service"
)

func TestCreateSubmission_JSON(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.createFn = func(_ context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error) {
		return &models.Submission{ID: "sub-1", TaskID: req.TaskID, ChildID: req.ChildID, Status: "pending"}, nil
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/", env.bearerToken(), models.CreateSubmissionRequest{
		TaskID:         "task-1",
		ChildID:        "child-1",
		SubmissionText: "All done!",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
}

func TestCreateSubmission_Multipart(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	var got *models.CreateSubmissionRequest
	env.submissions.createFn = func(_ context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error) {
		got = req
		url := "/uploads/room.jpg"
		return &models.Submission{ID: "sub-1", TaskID: req.TaskID, ChildID: req.ChildID, Status: "pending", FileURL: &url}, nil
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("task_id", "task-1"))
	require.NoError(t, form.WriteField("child_id", "child-1"))
	require.NoError(t, form.WriteField("submission_text", "Photo attached"))
	part, err := form.CreateFormFile("file", "room.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/submissions/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", env.bearerToken())

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "task-1", got.TaskID)
	assert.Equal(t, "room.jpg", got.FileName)
	assert.Equal(t, []byte("fake image bytes"), got.FileContent)
}

func TestCreateSubmission_MultipartWithoutFile(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	env.submissions.createFn = func(_ context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error) {
		assert.Empty(t, req.FileContent)
		return &models.Submission{ID: "sub-1", Status: "pending"}, nil
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("task_id", "task-1"))
	require.NoError(t, form.WriteField("child_id", "child-1"))
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/submissions/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", env.bearerToken())

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateSubmission_Duplicate(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.createFn = func(context.Context, *models.CreateSubmissionRequest) (*models.Submission, error) {
		return nil, service.ErrDuplicateSubmission
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/", env.bearerToken(), models.CreateSubmissionRequest{
		TaskID:  "task-1",
		ChildID: "child-1",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateSubmission_FileTooLarge(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.createFn = func(context.Context, *models.CreateSubmissionRequest) (*models.Submission, error) {
		return nil, service.ErrFileTooLarge
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/", env.bearerToken(), models.CreateSubmissionRequest{
		TaskID:  "task-1",
		ChildID: "child-1",
	})

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestCreateSubmission_BlockedType(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.createFn = func(context.Context, *models.CreateSubmissionRequest) (*models.Submission, error) {
		return nil, service.ErrFileTypeBlocked
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/", env.bearerToken(), models.CreateSubmissionRequest{
		TaskID:  "task-1",
		ChildID: "child-1",
	})

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestReviewSubmission(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.reviewFn = func(_ context.Context, id string, req *models.ReviewSubmissionRequest) (*models.Submission, error) {
		assert.Equal(t, "sub-1", id)
		return &models.Submission{ID: id, Status: req.Status}, nil
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/sub-1/review", env.bearerToken(), models.ReviewSubmissionRequest{
		Status: "approved",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "approved", data["status"])
}

func TestReviewSubmission_AlreadyReviewed(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.reviewFn = func(context.Context, string, *models.ReviewSubmissionRequest) (*models.Submission, error) {
		return nil, service.ErrAlreadyReviewed
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/sub-1/review", env.bearerToken(), models.ReviewSubmissionRequest{
		Status: "approved",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReviewSubmission_InvalidStatus(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.reviewFn = func(context.Context, string, *models.ReviewSubmissionRequest) (*models.Submission, error) {
		return nil, service.ErrInvalidReviewStatus
	}

	resp := doRequest(t, env, http.MethodPost, "/api/v1/submissions/sub-1/review", env.bearerToken(), models.ReviewSubmissionRequest{
		Status: "done",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSubmission_MultipartBodyTooLarge(t *testing.T) {
	env := newTestEnvWithUploadLimit(1024)
	defer env.close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("task_id", "task-1"))
	require.NoError(t, form.WriteField("child_id", "child-1"))
	part, err := form.CreateFormFile("file", "huge.mp4")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 2<<20))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/submissions/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", env.bearerToken())

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestGetSubmissionsByParent(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.byParentFn = func(_ context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error) {
		assert.Equal(t, "parent-1", parentID)
		assert.False(t, pendingOnly)
		return []models.SubmissionWithTask{
			{Submission: models.Submission{ID: "sub-1", Status: "pending"}, TaskTitle: "Clean your room"},
		}, nil
	}

	resp := doRequest(t, env, http.MethodGet, "/api/v1/submissions/parent/parent-1", env.bearerToken(), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
}

func TestGetSubmissionsByParent_PendingFilter(t *testing.T) {
	env := newTestEnv()
	defer env.close()

	var gotPendingOnly bool
	env.submissions.byParentFn = func(_ context.Context, _ string, pendingOnly bool) ([]models.SubmissionWithTask, error) {
		gotPendingOnly = pendingOnly
		return nil, nil
	}

	resp := doRequest(t, env, http.MethodGet, "/api/v1/submissions/parent/parent-1?pending=true", env.bearerToken(), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, gotPendingOnly)
}

func TestGetSubmissionsByParent_UnknownParent(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.byParentFn = func(context.Context, string, bool) ([]models.SubmissionWithTask, error) {
		return nil, service.ErrParentNotFound
	}

	resp := doRequest(t, env, http.MethodGet, "/api/v1/submissions/parent/missing", env.bearerToken(), nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSubmissionState(t *testing.T) {
	env := newTestEnv()
	defer env.close()
	env.submissions.getStateFn = func(_ context.Context, taskID, childID string) (*models.SubmissionStateResponse, error) {
		assert.Equal(t, "task-1", taskID)
		assert.Equal(t, "child-1", childID)
		return &models.SubmissionStateResponse{Submitted: true, Status: "pending"}, nil
	}

	resp := doRequest(t, env, http.MethodGet, "/api/v1/submissions/status/task-1/child-1", env.bearerToken(), nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["submitted"])
	assert.Equal(t, "pending", data["status"])
}
