package plan

import (
	"context"
	"time"
)

// Repository defines the operations the reminder flow needs on plans and their tasks.
type Repository interface {
	GetByIDAndUser(ctx context.Context, planID, userID string) (*StudyPlan, error)
	ListActive(ctx context.Context) ([]*StudyPlan, error)
	// ListTasks returns the plan's tasks ordered by date ascending.
	ListTasks(ctx context.Context, planID string) ([]*ScheduleTask, error)
	UpdateLastReminderSent(ctx context.Context, planID string, sentAt time.Time) error
}
