package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"study_plan_notifier/internal/app" // For ReminderService interface
	"study_plan_notifier/internal/domain/plan"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SweepSummary tallies the outcomes of one missed-day sweep.
type SweepSummary struct {
	StartedAt time.Time
	Duration  time.Duration
	Evaluated int
	Sent      int
	Skipped   int
	Failed    int
}

func (s SweepSummary) String() string {
	return fmt.Sprintf("evaluated=%d sent=%d skipped=%d failed=%d duration=%s",
		s.Evaluated, s.Sent, s.Skipped, s.Failed, s.Duration.Round(time.Millisecond))
}

// SweepReporter receives the summary after each sweep, e.g. an ops chat.
type SweepReporter interface {
	ReportSweep(ctx context.Context, summary SweepSummary) error
}

type ReminderScheduler struct {
	cronEngine        *cron.Cron
	reminderService   app.ReminderService
	planRepo          plan.Repository
	reporter          SweepReporter // Optional
	logger            *logrus.Entry
	cronSpecMissedDay string
	sweepTimeout      time.Duration
	mu                sync.Mutex // Serializes sweeps started by cron and by admin commands
}

func NewReminderScheduler(
	reminderService app.ReminderService,
	planRepo plan.Repository,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecMissedDay string, // e.g., "0 9 * * *" (9 AM daily)
	sweepTimeout time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:        cron.New(cron.WithLocation(location)),
		reminderService:   reminderService,
		planRepo:          planRepo,
		logger:            logger,
		cronSpecMissedDay: cronSpecMissedDay,
		sweepTimeout:      sweepTimeout,
	}
}

// SetReporter attaches a reporter that is told about every finished sweep.
func (s *ReminderScheduler) SetReporter(r SweepReporter) {
	s.reporter = r
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecMissedDay, func() {
		s.logger.Info("Cron job triggered for missed-day reminders.")
		ctx, cancel := context.WithTimeout(context.Background(), s.sweepTimeout)
		defer cancel()
		if _, err := s.RunMissedDaySweep(ctx); err != nil {
			s.logger.WithError(err).Error("Missed-day sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add missed-day cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecMissedDay).Info("Reminder scheduler started.")
	return nil
}

// RunMissedDaySweep evaluates every active plan once. A failing plan is counted and skipped;
// only a failure to list plans aborts the sweep.
func (s *ReminderScheduler) RunMissedDaySweep(ctx context.Context) (SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := SweepSummary{StartedAt: time.Now()}

	plans, err := s.planRepo.ListActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list active plans: %w", err)
	}
	s.logger.WithField("plans", len(plans)).Info("Evaluating active plans for missed days")

	for _, p := range plans {
		if ctx.Err() != nil {
			s.logger.WithError(ctx.Err()).Warn("Sweep interrupted, remaining plans left for next run")
			break
		}
		summary.Evaluated++

		outcome, err := s.reminderService.EvaluateMissedDay(ctx, p.UserID, p.ID)
		if err != nil {
			summary.Failed++
			s.logger.WithError(err).WithFields(logrus.Fields{
				"plan_id": p.ID,
				"user_id": p.UserID,
			}).Error("Missed-day evaluation failed")
			continue
		}
		if outcome.Sent() {
			summary.Sent++
		} else {
			summary.Skipped++
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	s.logger.WithField("summary", summary.String()).Info("Missed-day sweep finished")

	if s.reporter != nil {
		if err := s.reporter.ReportSweep(ctx, summary); err != nil {
			s.logger.WithError(err).Warn("Failed to report sweep summary")
		}
	}
	return summary, nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
