// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"strings"

	"study_plan_notifier/internal/domain/email"

	"github.com/sirupsen/logrus"
)

// PlanDetails is the subset of a generated plan shown in notification emails.
type PlanDetails struct {
	Subjects          string  `json:"subjects"`
	StudyDurationDays int     `json:"studyDurationDays"`
	DailyStudyHours   float64 `json:"dailyStudyHours"`
}

// PlanEmailRequest is the payload for plan-creation and plan-completion emails.
type PlanEmailRequest struct {
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	PlanDetails *PlanDetails `json:"planDetails"`
}

func (r PlanEmailRequest) validate() error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Name) == "" || r.PlanDetails == nil ||
		strings.TrimSpace(r.PlanDetails.Subjects) == "" {
		return &ValidationError{Message: "Missing required fields"}
	}
	return nil
}

func (r PlanEmailRequest) view() planView {
	return planView{
		Name:              r.Name,
		Subjects:          r.PlanDetails.Subjects,
		StudyDurationDays: r.PlanDetails.StudyDurationDays,
		DailyStudyHours:   r.PlanDetails.DailyStudyHours,
	}
}

// NotificationService sends the fixed-template plan lifecycle emails.
type NotificationService interface {
	SendPlanCreation(ctx context.Context, req PlanEmailRequest) error
	SendPlanCompletion(ctx context.Context, req PlanEmailRequest) error
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	sender email.Sender
	logger *logrus.Entry
}

func NewNotificationServiceImpl(sender email.Sender, logger *logrus.Entry) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		sender: sender,
		logger: logger,
	}
}

func (s *NotificationServiceImpl) SendPlanCreation(ctx context.Context, req PlanEmailRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	msg, err := planCreationMessage(req.Email, req.view())
	if err != nil {
		return fmt.Errorf("failed to compose plan creation email: %w", err)
	}
	return s.dispatch(ctx, msg, "plan_creation")
}

func (s *NotificationServiceImpl) SendPlanCompletion(ctx context.Context, req PlanEmailRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	msg, err := planCompletionMessage(req.Email, req.view())
	if err != nil {
		return fmt.Errorf("failed to compose plan completion email: %w", err)
	}
	return s.dispatch(ctx, msg, "plan_completion")
}

func (s *NotificationServiceImpl) dispatch(ctx context.Context, msg email.Message, kind string) error {
	log := s.logger.WithFields(logrus.Fields{"email_kind": kind, "recipient": msg.ToAddress})
	if err := s.sender.Send(ctx, msg); err != nil {
		logDispatchFailure(log, err, "Failed to send notification email")
		return &DispatchError{Err: err}
	}
	log.Info("Notification email dispatched")
	return nil
}
