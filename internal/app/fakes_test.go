package app

import (
	"context"
	"io"
	"time"

	"study_plan_notifier/internal/domain/email"
	"study_plan_notifier/internal/domain/plan"
	"study_plan_notifier/internal/domain/user"
	idb "study_plan_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

type fakePlanRepo struct {
	plans      map[string]*plan.StudyPlan
	tasks      map[string][]*plan.ScheduleTask
	getErr     error
	listErr    error
	updateErr  error
	updates    []time.Time
	listCalled int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		plans: map[string]*plan.StudyPlan{},
		tasks: map[string][]*plan.ScheduleTask{},
	}
}

func (r *fakePlanRepo) GetByIDAndUser(_ context.Context, planID, userID string) (*plan.StudyPlan, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return nil, idb.ErrPlanNotFound
	}
	return p, nil
}

func (r *fakePlanRepo) ListActive(_ context.Context) ([]*plan.StudyPlan, error) {
	var out []*plan.StudyPlan
	for _, p := range r.plans {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) ListTasks(_ context.Context, planID string) ([]*plan.ScheduleTask, error) {
	r.listCalled++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.tasks[planID], nil
}

func (r *fakePlanRepo) UpdateLastReminderSent(_ context.Context, planID string, sentAt time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, sentAt)
	p := r.plans[planID]
	p.LastReminderSentDate.Time = sentAt
	p.LastReminderSentDate.Valid = true
	return nil
}

type fakeUserRepo struct {
	users map[string]*user.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, idb.ErrUserNotFound
	}
	return u, nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func silentLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
