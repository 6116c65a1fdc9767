package service

import (
	"errors"
	"fmt"
)

// Ошибки бизнес-логики. Repository-level not-found errors are passed through
// as repository.ErrTaskNotFound / repository.ErrUserNotFound.
var (
	// ErrPermissionDenied is returned when the actor is neither the task
	// creator nor an admin.
	ErrPermissionDenied = errors.New("you do not have permission to modify this task")

	// ErrInvalidStatus is returned for status values outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrSameAssignee is returned when a task is reassigned to its current assignee.
	ErrSameAssignee = errors.New("task is already assigned to this user")

	// ErrAlreadyCompleted is returned when completing a completed task.
	ErrAlreadyCompleted = errors.New("task is already marked as completed")

	// ErrNotCompleted is returned when reopening a task that is not completed.
	ErrNotCompleted = errors.New("task is not completed and cannot be reopened")

	// ErrAlreadyAdmin is returned when promoting an admin.
	ErrAlreadyAdmin = errors.New("user is already an admin")

	// ErrNotAdmin is returned when demoting a member.
	ErrNotAdmin = errors.New("user is not an admin")
)

// SameAssigneeError carries the current assignee's display name so the front
// end can render "already assigned to X". It matches ErrSameAssignee in
// errors.Is checks.
type SameAssigneeError struct {
	Username string
}

func (e *SameAssigneeError) Error() string {
	return fmt.Sprintf("task is already assigned to %s", e.Username)
}

func (e *SameAssigneeError) Is(target error) bool {
	return target == ErrSameAssignee
}
