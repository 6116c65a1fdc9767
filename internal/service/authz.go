package service

import (
	"taskbot/internal/model"
)

// CanMutate reports whether the actor may mutate the task: the task creator
// and admins may, everyone else may not. Pure predicate over fetched records;
// the caller resolves "not found" before evaluating it.
func CanMutate(actor *model.User, task *model.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	return task.CreatorID == actor.ID || actor.IsAdmin()
}
