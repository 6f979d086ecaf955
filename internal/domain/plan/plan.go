package plan

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of a study plan.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// StudyPlan is a user's study schedule over a set of subjects.
// Corresponds to the 'study_plans' table.
type StudyPlan struct {
	ID                   string
	UserID               string
	Subjects             []string
	StudyDurationDays    int
	DailyStudyHours      float64
	Status               Status
	LastReminderSentDate sql.NullTime // Only written by the missed-day reminder
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsActive reports whether reminders may be sent for the plan.
func (p *StudyPlan) IsActive() bool {
	return p.Status == StatusActive
}

// ScheduleTask is one scheduled unit of study work, tied to a calendar date.
// Corresponds to the 'schedule_tasks' table.
type ScheduleTask struct {
	ID        int64
	PlanID    string
	Date      time.Time // Calendar date, time part is zero
	Completed bool
}

// FirstIncomplete returns the first task not yet completed, or nil.
// tasks must already be ordered by date ascending.
func FirstIncomplete(tasks []*ScheduleTask) *ScheduleTask {
	for _, t := range tasks {
		if !t.Completed {
			return t
		}
	}
	return nil
}
