package model

import (
	"time"
)

type Task struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatorID        string     `gorm:"not null;index" json:"creator_id"`
	AssigneeID       string     `gorm:"not null;index" json:"assignee_id"`
	AssigneeUsername string     `gorm:"not null" json:"assignee_username"`
	Description      string     `gorm:"not null" json:"description"`
	Status           Status     `gorm:"not null;default:'open'" json:"status"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Creator  User `gorm:"foreignKey:CreatorID" json:"-"`
	Assignee User `gorm:"foreignKey:AssigneeID" json:"-"`
}

type Status string

const (
	StatusOpen          Status = "open"
	StatusInProgress    Status = "in_progress"
	StatusPendingReview Status = "pending_review"
	StatusCompleted     Status = "completed"

	// StatusPending зарезервирован: встречается в обзоре, но не принимается командами
	StatusPending Status = "pending"

	// StatusUnknown — корзина для нераспознанных значений из БД
	StatusUnknown Status = "unknown"
)

// AssignableStatuses are the values accepted by the status-change command.
var AssignableStatuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusPendingReview,
	StatusCompleted,
}

// OverviewStatuses are the buckets shown in the task overview, in display order.
var OverviewStatuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusPending,
	StatusPendingReview,
	StatusCompleted,
	StatusUnknown,
}

// IsAssignable reports whether s may be set through the status-change command.
func (s Status) IsAssignable() bool {
	for _, known := range AssignableStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Bucket maps a stored status onto an overview bucket. Values that are not
// recognized land in the unknown bucket instead of being dropped.
func (s Status) Bucket() Status {
	for _, known := range OverviewStatuses {
		if s == known && s != StatusUnknown {
			return s
		}
	}
	return StatusUnknown
}
