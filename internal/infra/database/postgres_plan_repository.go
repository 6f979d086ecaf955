// internal/infra/database/postgres_plan_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"study_plan_notifier/internal/domain/plan"

	"github.com/lib/pq" // For pq.Array
)

// Custom errors
var ErrPlanNotFound = errors.New("study plan not found")

const planColumns = `id, user_id, subjects, study_duration_days, daily_study_hours, status,
               last_reminder_sent_date, created_at, updated_at`

type PostgresPlanRepository struct {
	db *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*plan.StudyPlan, error) {
	p := &plan.StudyPlan{}
	err := row.Scan(&p.ID, &p.UserID, pq.Array(&p.Subjects), &p.StudyDurationDays, &p.DailyStudyHours, &p.Status,
		&p.LastReminderSentDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresPlanRepository) GetByIDAndUser(ctx context.Context, planID, userID string) (*plan.StudyPlan, error) {
	query := `SELECT ` + planColumns + `
               FROM study_plans WHERE id = $1 AND user_id = $2`
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, planID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error getting study plan by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresPlanRepository) ListActive(ctx context.Context) ([]*plan.StudyPlan, error) {
	query := `SELECT ` + planColumns + `
               FROM study_plans WHERE status = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, plan.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("error listing active study plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*plan.StudyPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning active study plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active study plans: %w", err)
	}
	return plans, nil
}

func (r *PostgresPlanRepository) ListTasks(ctx context.Context, planID string) ([]*plan.ScheduleTask, error) {
	query := `SELECT id, plan_id, task_date, completed
               FROM schedule_tasks WHERE plan_id = $1 ORDER BY task_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("error listing schedule tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*plan.ScheduleTask, 0)
	for rows.Next() {
		t := &plan.ScheduleTask{}
		if err := rows.Scan(&t.ID, &t.PlanID, &t.Date, &t.Completed); err != nil {
			return nil, fmt.Errorf("error scanning schedule task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresPlanRepository) UpdateLastReminderSent(ctx context.Context, planID string, sentAt time.Time) error {
	query := `UPDATE study_plans
               SET last_reminder_sent_date = $1, updated_at = NOW()
               WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, sentAt, planID)
	if err != nil {
		return fmt.Errorf("error updating last reminder date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
