package cache

import "fmt"

// AdminOverviewKey is the shared overview entry for admins: every admin sees
// all tasks, so one entry serves them all.
const AdminOverviewKey = "task-overview:admin"

// ListKey is the per-user task list entry.
func ListKey(userID string) string {
	return fmt.Sprintf("task-list:%s", userID)
}

// OverviewKey is the per-user overview entry for non-admins.
func OverviewKey(userID string) string {
	return fmt.Sprintf("task-overview:%s", userID)
}
