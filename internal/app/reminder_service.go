// internal/app/reminder_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"study_plan_notifier/internal/domain/email"
	"study_plan_notifier/internal/domain/plan"
	"study_plan_notifier/internal/domain/user"
	idb "study_plan_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// ReminderDecision names the branch the missed-day evaluation ended on.
type ReminderDecision string

const (
	DecisionSent         ReminderDecision = "sent"
	DecisionInactive     ReminderDecision = "inactive"
	DecisionAlreadySent  ReminderDecision = "already_sent"
	DecisionAllCompleted ReminderDecision = "all_completed"
	DecisionOnSchedule   ReminderDecision = "on_schedule"
)

var decisionMessages = map[ReminderDecision]string{
	DecisionSent:         "Reminder email sent.",
	DecisionInactive:     "No reminder needed for non-active plan.",
	DecisionAlreadySent:  "Reminder already sent today.",
	DecisionAllCompleted: "All tasks completed, no reminder needed.",
	DecisionOnSchedule:   "User is not behind schedule.",
}

// ReminderOutcome is the successful result of a missed-day evaluation.
type ReminderOutcome struct {
	Decision   ReminderDecision
	DaysBehind int       // Set only when Decision is DecisionSent
	SentAt     time.Time // Set only when Decision is DecisionSent
}

// Sent reports whether a reminder email went out.
func (o *ReminderOutcome) Sent() bool {
	return o.Decision == DecisionSent
}

// Message is the human-readable status returned to callers.
func (o *ReminderOutcome) Message() string {
	return decisionMessages[o.Decision]
}

// ReminderService decides whether a user who fell behind their plan gets a reminder today.
type ReminderService interface {
	EvaluateMissedDay(ctx context.Context, userID, planID string) (*ReminderOutcome, error)
}

// ReminderServiceImpl implements ReminderService.
type ReminderServiceImpl struct {
	planRepo plan.Repository
	userRepo user.Repository
	sender   email.Sender
	location *time.Location // Day boundaries are computed in this zone
	now      func() time.Time
	logger   *logrus.Entry
}

func NewReminderServiceImpl(
	pr plan.Repository,
	ur user.Repository,
	sender email.Sender,
	location *time.Location,
	logger *logrus.Entry,
) *ReminderServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &ReminderServiceImpl{
		planRepo: pr,
		userRepo: ur,
		sender:   sender,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the time source.
func (s *ReminderServiceImpl) WithClock(now func() time.Time) *ReminderServiceImpl {
	s.now = now
	return s
}

// EvaluateMissedDay runs the missed-day checks for one plan and sends at most one reminder per day.
// Every check before the send is read-only; the send date is recorded only after a successful send.
func (s *ReminderServiceImpl) EvaluateMissedDay(ctx context.Context, userID, planID string) (*ReminderOutcome, error) {
	userID = strings.TrimSpace(userID)
	planID = strings.TrimSpace(planID)
	if userID == "" || planID == "" {
		return nil, &ValidationError{Message: "User ID and Plan ID are required"}
	}

	log := s.logger.WithFields(logrus.Fields{"user_id": userID, "plan_id": planID})

	studyPlan, err := s.planRepo.GetByIDAndUser(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, idb.ErrPlanNotFound) {
			log.Warn("Plan not found for user")
			return nil, &NotFoundError{Message: "Plan or user not found"}
		}
		return nil, &PersistenceError{Op: "get study plan", Err: err}
	}
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			log.Warn("User not found")
			return nil, &NotFoundError{Message: "Plan or user not found"}
		}
		return nil, &PersistenceError{Op: "get user", Err: err}
	}

	if !studyPlan.IsActive() {
		log.WithField("status", studyPlan.Status).Debug("Plan is not active, skipping reminder")
		return &ReminderOutcome{Decision: DecisionInactive}, nil
	}

	now := s.now().In(s.location)
	today := civilDate(now)

	if studyPlan.LastReminderSentDate.Valid && civilDate(studyPlan.LastReminderSentDate.Time.In(s.location)).Equal(today) {
		log.Debug("Reminder already sent today")
		return &ReminderOutcome{Decision: DecisionAlreadySent}, nil
	}

	tasks, err := s.planRepo.ListTasks(ctx, planID)
	if err != nil {
		return nil, &PersistenceError{Op: "list schedule tasks", Err: err}
	}
	firstIncomplete := plan.FirstIncomplete(tasks)
	if firstIncomplete == nil {
		log.Debug("All tasks completed, skipping reminder")
		return &ReminderOutcome{Decision: DecisionAllCompleted}, nil
	}

	taskDay := civilDate(firstIncomplete.Date)
	if !taskDay.Before(today) {
		log.Debug("User is on schedule")
		return &ReminderOutcome{Decision: DecisionOnSchedule}, nil
	}

	daysBehind := DaysBetween(taskDay, today)
	log = log.WithField("days_behind", daysBehind)

	msg, err := reminderMessage(owner.Email, reminderView{
		Name:       owner.Name,
		Subjects:   strings.Join(studyPlan.Subjects, ", "),
		DaysBehind: daysBehind,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compose reminder: %w", err)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logDispatchFailure(log, err, "Failed to send missed-day reminder")
		return nil, &DispatchError{Err: err}
	}

	if err := s.planRepo.UpdateLastReminderSent(ctx, planID, now); err != nil {
		log.WithError(err).Error("Reminder sent but failed to record send date")
		return nil, &PersistenceError{Op: "record reminder send date", Err: err}
	}

	log.Info("Missed-day reminder sent")
	return &ReminderOutcome{Decision: DecisionSent, DaysBehind: daysBehind, SentAt: now}, nil
}

// civilDate keeps only the calendar date of t as seen in t's own location, anchored at UTC midnight.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from 'from' to 'to'.
// Both values are reduced to their calendar dates first, so DST transitions do not matter.
func DaysBetween(from, to time.Time) int {
	return int(civilDate(to).Sub(civilDate(from)) / (24 * time.Hour))
}

func logDispatchFailure(log *logrus.Entry, err error, msg string) {
	var deliveryErr *email.DeliveryError
	if errors.As(err, &deliveryErr) {
		log = log.WithFields(logrus.Fields{
			"provider_status": deliveryErr.StatusCode,
			"provider_body":   deliveryErr.Body,
		})
	}
	log.WithError(err).Error(msg)
}
