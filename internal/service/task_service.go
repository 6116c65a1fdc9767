package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskbot/internal/cache"
	"taskbot/internal/logger"
	"taskbot/internal/model"
	"taskbot/internal/repository"
)

// ListTTL is how long cached task lists and overviews live before a read
// repopulates them from the database.
const ListTTL = 300 * time.Second

// TaskService is the single authority for task reads and mutations. Every
// mutation follows the same frame: fetch the records, authorize the actor,
// write, then synchronously invalidate the cache entries the write touched.
type TaskService struct {
	tasks repository.TaskRepositoryInterface
	users repository.UserRepositoryInterface
	cache cache.Cache
}

func NewTaskService(
	tasks repository.TaskRepositoryInterface,
	users repository.UserRepositoryInterface,
	c cache.Cache,
) *TaskService {
	return &TaskService{
		tasks: tasks,
		users: users,
		cache: c,
	}
}

// Overview groups tasks by status. Admins see every task; members only see
// tasks assigned to them.
type Overview struct {
	IsAdmin bool                          `json:"is_admin"`
	Buckets map[model.Status][]model.Task `json:"buckets"`
}

// Total returns the number of tasks across all buckets.
func (o *Overview) Total() int {
	total := 0
	for _, tasks := range o.Buckets {
		total += len(tasks)
	}
	return total
}

// Reminders splits a user's dated tasks around the start of today.
type Reminders struct {
	Overdue  []model.Task `json:"overdue"`
	Upcoming []model.Task `json:"upcoming"`
}

// Create inserts a new open task. The assignee defaults to the creator when
// not specified.
func (s *TaskService) Create(ctx context.Context, creatorID, creatorName, description, assigneeID, assigneeName string) (*model.Task, error) {
	if assigneeID == "" {
		assigneeID = creatorID
		assigneeName = creatorName
	}

	task := &model.Task{
		CreatorID:        creatorID,
		AssigneeID:       assigneeID,
		AssigneeUsername: assigneeName,
		Description:      description,
		Status:           model.StatusOpen,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if err := s.invalidateFor(ctx, creatorID, assigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns a single task by ID.
func (s *TaskService) Get(ctx context.Context, taskID int64) (*model.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// ListForUser returns the user's assigned tasks, newest first, through the
// cache.
func (s *TaskService) ListForUser(ctx context.Context, userID string) ([]model.Task, error) {
	key := cache.ListKey(userID)

	val, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if hit {
		var tasks []model.Task
		if err := json.Unmarshal([]byte(val), &tasks); err == nil {
			return tasks, nil
		}
		// Нечитаемая запись: перечитываем из БД и перезаписываем
		logger.Warn("dropping unreadable cache entry", zap.String("key", key))
	}

	tasks, err := s.tasks.GetByAssignee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode task list: %w", err)
	}
	if err := s.cache.Set(ctx, key, string(data), ListTTL); err != nil {
		return nil, fmt.Errorf("cache set: %w", err)
	}

	return tasks, nil
}

// UpdateDescription changes a task's description.
func (s *TaskService) UpdateDescription(ctx context.Context, actorID string, taskID int64, description string) (*model.Task, error) {
	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	task.Description = description
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := s.invalidateFor(ctx, task.AssigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// Reassign moves a task to a new assignee. Reassigning to the current
// assignee is rejected.
func (s *TaskService) Reassign(ctx context.Context, actorID string, taskID int64, newAssigneeID, newAssigneeName string) (*model.Task, error) {
	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if task.AssigneeID == newAssigneeID {
		return nil, &SameAssigneeError{Username: task.AssigneeUsername}
	}

	oldAssigneeID := task.AssigneeID
	task.AssigneeID = newAssigneeID
	task.AssigneeUsername = newAssigneeName
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task assignee: %w", err)
	}

	if err := s.invalidateFor(ctx, oldAssigneeID, newAssigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// SetStatus changes a task's status to one of the allowed values. The value
// is validated before anything is fetched or written.
func (s *TaskService) SetStatus(ctx context.Context, actorID string, taskID int64, status model.Status) (*model.Task, error) {
	if !status.IsAssignable() {
		return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	if err := s.invalidateFor(ctx, task.AssigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete marks a task completed. Completing a completed task is an error,
// not a no-op.
func (s *TaskService) Complete(ctx context.Context, actorID string, taskID int64) (*model.Task, error) {
	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == model.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	task.Status = model.StatusCompleted
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	if err := s.invalidateFor(ctx, task.AssigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// Reopen returns a completed task to open.
func (s *TaskService) Reopen(ctx context.Context, actorID string, taskID int64) (*model.Task, error) {
	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}

	task.Status = model.StatusOpen
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("reopen task: %w", err)
	}

	if err := s.invalidateFor(ctx, task.AssigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// SetDueDate sets or, with nil, clears a task's due date.
func (s *TaskService) SetDueDate(ctx context.Context, actorID string, taskID int64, dueDate *time.Time) (*model.Task, error) {
	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	task.DueDate = dueDate
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update due date: %w", err)
	}

	if err := s.invalidateFor(ctx, task.AssigneeID); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, actorID string, taskID int64) error {
	task, err := s.getAuthorizedTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return s.invalidateFor(ctx, task.AssigneeID)
}

// GetOverview returns tasks grouped by status: every task for admins, only
// the user's assigned tasks for members. Admins share one cache entry.
func (s *TaskService) GetOverview(ctx context.Context, userID string) (*Overview, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, repository.ErrUserNotFound
	}

	key := cache.OverviewKey(userID)
	if user.IsAdmin() {
		key = cache.AdminOverviewKey
	}

	val, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if hit {
		var overview Overview
		if err := json.Unmarshal([]byte(val), &overview); err == nil {
			return &overview, nil
		}
		logger.Warn("dropping unreadable cache entry", zap.String("key", key))
	}

	var tasks []model.Task
	if user.IsAdmin() {
		tasks, err = s.tasks.GetAll(ctx)
	} else {
		tasks, err = s.tasks.GetByAssignee(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}

	overview := &Overview{
		IsAdmin: user.IsAdmin(),
		Buckets: make(map[model.Status][]model.Task, len(model.OverviewStatuses)),
	}
	for _, status := range model.OverviewStatuses {
		overview.Buckets[status] = []model.Task{}
	}
	for _, task := range tasks {
		bucket := task.Status.Bucket()
		overview.Buckets[bucket] = append(overview.Buckets[bucket], task)
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return nil, fmt.Errorf("encode overview: %w", err)
	}
	if err := s.cache.Set(ctx, key, string(data), ListTTL); err != nil {
		return nil, fmt.Errorf("cache set: %w", err)
	}

	return overview, nil
}

// GetReminders splits the user's dated tasks into overdue and upcoming
// relative to the start of today. Tasks due exactly at midnight today fall
// in neither bucket.
func (s *TaskService) GetReminders(ctx context.Context, userID string) (*Reminders, error) {
	tasks, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	reminders := &Reminders{
		Overdue:  []model.Task{},
		Upcoming: []model.Task{},
	}
	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		switch {
		case task.DueDate.Before(startOfToday):
			reminders.Overdue = append(reminders.Overdue, task)
		case task.DueDate.After(startOfToday):
			reminders.Upcoming = append(reminders.Upcoming, task)
		}
	}

	return reminders, nil
}

// getAuthorizedTask fetches the task and the acting user, then applies the
// creator-or-admin rule. Missing records surface as not-found errors before
// the permission check.
func (s *TaskService) getAuthorizedTask(ctx context.Context, actorID string, taskID int64) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if actor == nil {
		return nil, repository.ErrUserNotFound
	}

	if !CanMutate(actor, task) {
		return nil, ErrPermissionDenied
	}
	return task, nil
}

// invalidateFor drops the list and overview entries of the given users plus
// the shared admin overview. Runs synchronously after every write; a failure
// is logged and surfaced to the caller.
func (s *TaskService) invalidateFor(ctx context.Context, userIDs ...string) error {
	keys := []string{cache.AdminOverviewKey}
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, cache.ListKey(id), cache.OverviewKey(id))
	}

	if err := s.cache.Del(ctx, keys...); err != nil {
		logger.Error("cache invalidation failed", err, zap.Strings("keys", keys))
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}
