package service

import (
	"context"
	"sort"
	"time"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
)

// In-memory repository fakes backing the service tests. They mimic the
// Postgres repositories' contract: lookups return (nil, nil) on a miss.

type fakeUserRepo struct {
	users     map[string]*models.User
	createErr error
	lastLimit int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmailAndRole(_ context.Context, email, role string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Role == role {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetChildrenByParent(_ context.Context, parentID string) ([]models.User, error) {
	var children []models.User
	for _, u := range r.users {
		if u.Role == models.RoleChild.String() && u.ParentID != nil && *u.ParentID == parentID {
			children = append(children, *u)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}

func (r *fakeUserRepo) GetLeaderboard(_ context.Context, limit int) ([]models.ChildWithXP, error) {
	r.lastLimit = limit
	var entries []models.ChildWithXP
	for _, u := range r.users {
		if u.Role != models.RoleChild.String() {
			continue
		}
		entries = append(entries, models.ChildWithXP{
			ID:      u.ID,
			Name:    u.Name,
			TotalXP: u.TotalXP,
			Level:   u.Level(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TotalXP > entries[j].TotalXP })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id, role string) (bool, error) {
	u, ok := r.users[id]
	return ok && u.Role == role, nil
}

type fakeTaskRepo struct {
	tasks    map[string]*models.Task
	byParent map[string][]models.TaskWithStatus
	byChild  map[string][]models.TaskWithStatus
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:    map[string]*models.Task{},
		byParent: map[string][]models.TaskWithStatus{},
		byChild:  map[string][]models.TaskWithStatus{},
	}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*models.Task, error) {
	return r.tasks[id], nil
}

func (r *fakeTaskRepo) GetByParentID(_ context.Context, parentID string) ([]models.TaskWithStatus, error) {
	return r.byParent[parentID], nil
}

func (r *fakeTaskRepo) GetByChildID(_ context.Context, childID string) ([]models.TaskWithStatus, error) {
	return r.byChild[childID], nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*models.Submission
	createErr   error
	byChild     map[string][]models.SubmissionWithTask
	byTask      map[string][]models.SubmissionWithTask
	byParent    map[string][]models.SubmissionWithTask
	counts      map[string][]models.StatusCount
	countErrs   map[string]error
	tx          *fakeReviewTx
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions: map[string]*models.Submission{},
		byChild:     map[string][]models.SubmissionWithTask{},
		byTask:      map[string][]models.SubmissionWithTask{},
		byParent:    map[string][]models.SubmissionWithTask{},
		counts:      map[string][]models.StatusCount{},
		countErrs:   map[string]error{},
	}
}

func (r *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.submissions[submission.ID] = submission
	return nil
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	return r.submissions[id], nil
}

func (r *fakeSubmissionRepo) GetByTaskAndChild(_ context.Context, taskID, childID string) (*models.Submission, error) {
	for _, s := range r.submissions {
		if s.TaskID == taskID && s.ChildID == childID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) GetByChildID(_ context.Context, childID string) ([]models.SubmissionWithTask, error) {
	return r.byChild[childID], nil
}

func (r *fakeSubmissionRepo) GetByTaskID(_ context.Context, taskID string) ([]models.SubmissionWithTask, error) {
	return r.byTask[taskID], nil
}

func (r *fakeSubmissionRepo) GetByParentID(_ context.Context, parentID string, pendingOnly bool) ([]models.SubmissionWithTask, error) {
	all := r.byParent[parentID]
	if !pendingOnly {
		return all, nil
	}
	var pending []models.SubmissionWithTask
	for _, s := range all {
		if s.Status == models.SubmissionStatusPending.String() {
			pending = append(pending, s)
		}
	}
	return pending, nil
}

func (r *fakeSubmissionRepo) CountByStatus(_ context.Context, childID string) ([]models.StatusCount, error) {
	if err := r.countErrs[childID]; err != nil {
		return nil, err
	}
	return r.counts[childID], nil
}

func (r *fakeSubmissionRepo) BeginReview(_ context.Context) (repository.ReviewTx, error) {
	return r.tx, nil
}

// fakeReviewTx applies review effects directly against the in-memory fakes so
// tests can observe the state a committed transaction would leave behind.
type fakeReviewTx struct {
	subs          *fakeSubmissionRepo
	users         *fakeUserRepo
	target        *models.ReviewTarget
	raced         bool
	notifications []*models.Notification
	committed     bool
	rolledBack    bool
}

func newFakeReviewTx(subs *fakeSubmissionRepo, users *fakeUserRepo, target *models.ReviewTarget) *fakeReviewTx {
	tx := &fakeReviewTx{subs: subs, users: users, target: target}
	subs.tx = tx
	return tx
}

func (t *fakeReviewTx) MarkReviewed(_ context.Context, id, status, feedback string) (bool, error) {
	s := t.subs.submissions[id]
	if t.raced || s == nil || s.Status != models.SubmissionStatusPending.String() {
		return false, nil
	}
	s.Status = status
	if feedback != "" {
		fb := feedback
		s.Feedback = &fb
	}
	now := time.Now()
	s.ReviewedAt = &now
	return true, nil
}

func (t *fakeReviewTx) Target(_ context.Context, _ string) (*models.ReviewTarget, error) {
	return t.target, nil
}

func (t *fakeReviewTx) AddXP(_ context.Context, childID string, amount int) (bool, error) {
	u := t.users.users[childID]
	if u == nil || u.Role != models.RoleChild.String() {
		return false, nil
	}
	u.TotalXP += amount
	return true, nil
}

func (t *fakeReviewTx) InsertNotification(_ context.Context, n *models.Notification) error {
	t.notifications = append(t.notifications, n)
	return nil
}

func (t *fakeReviewTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeReviewTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeNotificationRepo struct {
	byChild map[string][]models.Notification
	read    map[string]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		byChild: map[string][]models.Notification{},
		read:    map[string]bool{},
	}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.byChild[n.ChildID] = append(r.byChild[n.ChildID], *n)
	return nil
}

func (r *fakeNotificationRepo) GetByChildID(_ context.Context, childID string) ([]models.Notification, error) {
	return r.byChild[childID], nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	_, ok := r.read[id]
	if ok {
		r.read[id] = true
	}
	return ok, nil
}

type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, fileName string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := "/uploads/" + fileName
	s.saved[url] = data
	return url, nil
}

func (s *fakeStorage) Delete(_ context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	delete(s.saved, fileURL)
	return nil
}

type fakePublisher struct {
	events []*models.SubmissionReviewedEvent
}

func (p *fakePublisher) PublishSubmissionReviewed(_ context.Context, event *models.SubmissionReviewedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
