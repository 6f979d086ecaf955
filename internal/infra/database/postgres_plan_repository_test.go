package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"study_plan_notifier/internal/domain/plan"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planRowColumns = []string{
	"id", "user_id", "subjects", "study_duration_days", "daily_study_hours", "status",
	"last_reminder_sent_date", "created_at", "updated_at",
}

func newMockPlanRepo(t *testing.T) (*PostgresPlanRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresPlanRepository(db), mock
}

func TestPlanRepository_GetByIDAndUser(t *testing.T) {
	repo, mock := newMockPlanRepo(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	sent := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM study_plans WHERE id = $1 AND user_id = $2")).
		WithArgs("p1", "u1").
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow("p1", "u1", "{Algebra,Physics}", 30, 2.5, "active", sent, created, created))

	p, err := repo.GetByIDAndUser(context.Background(), "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, []string{"Algebra", "Physics"}, p.Subjects)
	assert.Equal(t, 30, p.StudyDurationDays)
	assert.Equal(t, plan.StatusActive, p.Status)
	assert.True(t, p.LastReminderSentDate.Valid)
	assert.True(t, p.LastReminderSentDate.Time.Equal(sent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepository_GetByIDAndUser_NullReminderDate(t *testing.T) {
	repo, mock := newMockPlanRepo(t)
	created := time.Now()

	mock.ExpectQuery("FROM study_plans").
		WithArgs("p1", "u1").
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow("p1", "u1", "{}", 0, 0.0, "paused", nil, created, created))

	p, err := repo.GetByIDAndUser(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.False(t, p.LastReminderSentDate.Valid)
	assert.Empty(t, p.Subjects)
	assert.Equal(t, plan.StatusPaused, p.Status)
}

func TestPlanRepository_GetByIDAndUser_NotFound(t *testing.T) {
	repo, mock := newMockPlanRepo(t)

	mock.ExpectQuery("FROM study_plans").
		WithArgs("missing", "u1").
		WillReturnRows(sqlmock.NewRows(planRowColumns))

	_, err := repo.GetByIDAndUser(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanRepository_ListTasksOrderedByDate(t *testing.T) {
	repo, mock := newMockPlanRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_tasks WHERE plan_id = $1 ORDER BY task_date ASC")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_id", "task_date", "completed"}).
			AddRow(1, "p1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true).
			AddRow(2, "p1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false))

	tasks, err := repo.ListTasks(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[1].Completed)
	assert.Equal(t, int64(2), tasks[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepository_ListActive(t *testing.T) {
	repo, mock := newMockPlanRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM study_plans WHERE status = $1")).
		WithArgs(plan.StatusActive).
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow("p1", "u1", "{Math}", 10, 1.0, "active", nil, now, now).
			AddRow("p2", "u2", "{Biology}", 14, 2.0, "active", nil, now, now))

	plans, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "u2", plans[1].UserID)
}

func TestPlanRepository_UpdateLastReminderSent(t *testing.T) {
	repo, mock := newMockPlanRepo(t)
	sentAt := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE study_plans")).
		WithArgs(sentAt, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastReminderSent(context.Background(), "p1", sentAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepository_UpdateLastReminderSent_Errors(t *testing.T) {
	repo, mock := newMockPlanRepo(t)
	sentAt := time.Now()

	mock.ExpectExec("UPDATE study_plans").
		WithArgs(sentAt, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateLastReminderSent(context.Background(), "gone", sentAt), ErrPlanNotFound)

	dbErr := errors.New("deadlock detected")
	mock.ExpectExec("UPDATE study_plans").
		WithArgs(sentAt, "p1").
		WillReturnError(dbErr)
	assert.ErrorIs(t, repo.UpdateLastReminderSent(context.Background(), "p1", sentAt), dbErr)
}
