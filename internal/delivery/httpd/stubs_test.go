package httpd

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/pkg/token"
)

// Function-field stubs for the service interfaces. Tests set only the
// methods the route under test calls.

type stubAuthService struct {
	signupParentFn func(ctx context.Context, req *models.SignupParentRequest) (*models.AuthResponse, error)
	signupChildFn  func(ctx context.Context, req *models.SignupChildRequest) (*models.AuthResponse, error)
	loginFn        func(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error)
}

func (s *stubAuthService) SignupParent(ctx context.Context, req *models.SignupParentRequest) (*models.AuthResponse, error) {
	return s.signupParentFn(ctx, req)
}

func (s *stubAuthService) SignupChild(ctx context.Context, req *models.SignupChildRequest) (*models.AuthResponse, error) {
	return s.signupChildFn(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error) {
	return s.loginFn(ctx, role, req)
}

type stubTaskService struct {
	createFn  func(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error)
	getByIDFn func(ctx context.Context, id string) (*models.Task, error)
	listFn    func(ctx context.Context, userID, role string) ([]models.TaskWithStatus, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	return s.createFn(ctx, req)
}

func (s *stubTaskService) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubTaskService) ListTasksByRole(ctx context.Context, userID, role string) ([]models.TaskWithStatus, error) {
	return s.listFn(ctx, userID, role)
}

type stubSubmissionService struct {
	createFn   func(ctx context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error)
	reviewFn   func(ctx context.Context, submissionID string, req *models.ReviewSubmissionRequest) (*models.Submission, error)
	getByIDFn  func(ctx context.Context, id string) (*models.Submission, error)
	byChildFn  func(ctx context.Context, childID string) ([]models.SubmissionWithTask, error)
	byTaskFn   func(ctx context.Context, taskID string) ([]models.SubmissionWithTask, error)
	byParentFn func(ctx context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error)
	getStateFn func(ctx context.Context, taskID, childID string) (*models.SubmissionStateResponse, error)
}

func (s *stubSubmissionService) CreateSubmission(ctx context.Context, req *models.CreateSubmissionRequest) (*models.Submission, error) {
	return s.createFn(ctx, req)
}

func (s *stubSubmissionService) ReviewSubmission(ctx context.Context, submissionID string, req *models.ReviewSubmissionRequest) (*models.Submission, error) {
	return s.reviewFn(ctx, submissionID, req)
}

func (s *stubSubmissionService) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubSubmissionService) GetSubmissionsByChild(ctx context.Context, childID string) ([]models.SubmissionWithTask, error) {
	return s.byChildFn(ctx, childID)
}

func (s *stubSubmissionService) GetSubmissionsByTask(ctx context.Context, taskID string) ([]models.SubmissionWithTask, error) {
	return s.byTaskFn(ctx, taskID)
}

func (s *stubSubmissionService) GetSubmissionsByParent(ctx context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error) {
	return s.byParentFn(ctx, parentID, pendingOnly)
}

func (s *stubSubmissionService) GetSubmissionState(ctx context.Context, taskID, childID string) (*models.SubmissionStateResponse, error) {
	return s.getStateFn(ctx, taskID, childID)
}

type stubSummaryService struct {
	childFn  func(ctx context.Context, childID string) (*models.ChildSummary, error)
	parentFn func(ctx context.Context, parentID string) (*models.ParentSummary, error)
}

func (s *stubSummaryService) SummarizeChild(ctx context.Context, childID string) (*models.ChildSummary, error) {
	return s.childFn(ctx, childID)
}

func (s *stubSummaryService) SummarizeParent(ctx context.Context, parentID string) (*models.ParentSummary, error) {
	return s.parentFn(ctx, parentID)
}

type stubUserService struct {
	xpFn          func(ctx context.Context, userID string) (*models.XPResponse, error)
	leaderboardFn func(ctx context.Context) ([]models.ChildWithXP, error)
	childrenFn    func(ctx context.Context, parentID string) ([]models.User, error)
}

func (s *stubUserService) GetXP(ctx context.Context, userID string) (*models.XPResponse, error) {
	return s.xpFn(ctx, userID)
}

func (s *stubUserService) GetLeaderboard(ctx context.Context) ([]models.ChildWithXP, error) {
	return s.leaderboardFn(ctx)
}

func (s *stubUserService) GetChildren(ctx context.Context, parentID string) ([]models.User, error) {
	return s.childrenFn(ctx, parentID)
}

type stubNotificationService struct {
	byChildFn  func(ctx context.Context, childID string) ([]models.Notification, error)
	markReadFn func(ctx context.Context, id string) error
}

func (s *stubNotificationService) GetNotificationsByChild(ctx context.Context, childID string) ([]models.Notification, error) {
	return s.byChildFn(ctx, childID)
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id string) error {
	return s.markReadFn(ctx, id)
}

type testEnv struct {
	auth          *stubAuthService
	tasks         *stubTaskService
	submissions   *stubSubmissionService
	summaries     *stubSummaryService
	users         *stubUserService
	notifications *stubNotificationService
	tokens        *token.Manager
	server        *httptest.Server
}

func newTestEnv() *testEnv {
	return newTestEnvWithUploadLimit(50 << 20)
}

func newTestEnvWithUploadLimit(uploadLimit int64) *testEnv {
	env := &testEnv{
		auth:          &stubAuthService{},
		tasks:         &stubTaskService{},
		submissions:   &stubSubmissionService{},
		summaries:     &stubSummaryService{},
		users:         &stubUserService{},
		notifications: &stubNotificationService{},
		tokens:        token.NewManager("test-secret", time.Hour, "gameup"),
	}

	handler := NewHandler(
		env.auth,
		env.tasks,
		env.submissions,
		env.summaries,
		env.users,
		env.notifications,
		env.tokens,
		uploadLimit,
		zerolog.Nop(),
	)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	env.server = httptest.NewServer(router)

	return env
}

func (e *testEnv) close() {
	e.server.Close()
}

// bearerToken issues a real token so requests pass the auth middleware.
func (e *testEnv) bearerToken() string {
	signed, _, err := e.tokens.Issue(&models.User{ID: "parent-1", Role: "parent"})
	if err != nil {
		panic(err)
	}
	return "Bearer " + signed
}
