package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/email"
	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
	"github.com/jwalitptl/meditrack/pkg/circuitbreaker"
	"github.com/jwalitptl/meditrack/pkg/logger"
	"github.com/jwalitptl/meditrack/pkg/metrics"
)

type Service interface {
	SendMedicineRequestNotificationToBHW(ctx context.Context, to, bhwName, residentName, medicineName string) error
	LogEmailNotification(ctx context.Context, userID int64, notificationType, subject, message string, success bool) error
	// NotifyRequestSubmitted emails the assigned health worker and records the
	// attempt. It reports whether the email went out and never fails the caller.
	NotifyRequestSubmitted(ctx context.Context, bhw *model.User, residentName, medicineName string) bool
}

type service struct {
	repo     repository.NotificationRepository
	emailSvc email.Service
	breaker  *circuitbreaker.CircuitBreaker
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.NotificationRepository,
	emailSvc email.Service,
	breaker *circuitbreaker.CircuitBreaker,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) Service {
	return &service{
		repo:     repo,
		emailSvc: emailSvc,
		breaker:  breaker,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *service) SendMedicineRequestNotificationToBHW(ctx context.Context, to, bhwName, residentName, medicineName string) error {
	if to == "" {
		return fmt.Errorf("recipient email is required")
	}
	// A disabled sender is not a transport failure and must not trip the breaker.
	var disabled error
	err := s.breaker.Execute(func() error {
		err := s.emailSvc.SendMedicineRequestNotificationToBHW(ctx, to, bhwName, residentName, medicineName)
		if errors.Is(err, email.ErrDisabled) {
			disabled = err
			return nil
		}
		return err
	})
	if disabled != nil {
		return disabled
	}
	return err
}

func (s *service) LogEmailNotification(ctx context.Context, userID int64, notificationType, subject, message string, success bool) error {
	entry := &model.EmailNotification{
		UserID:  userID,
		Type:    notificationType,
		Subject: subject,
		Message: message,
		Success: success,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to log email notification: %w", err)
	}
	return nil
}

func (s *service) NotifyRequestSubmitted(ctx context.Context, bhw *model.User, residentName, medicineName string) bool {
	if bhw == nil || bhw.Email == "" {
		return false
	}
	log := s.logger.WithContext(ctx)

	err := s.SendMedicineRequestNotificationToBHW(ctx, bhw.Email, bhw.FullName(), residentName, medicineName)
	sent := err == nil
	status := "sent"
	switch {
	case errors.Is(err, email.ErrDisabled):
		status = "skipped"
		log.Debug("Email disabled, health worker not notified", "bhw_id", bhw.ID)
	case err != nil:
		status = "failed"
		log.Warn(err, "Failed to notify health worker", "bhw_id", bhw.ID)
	}
	s.metrics.Notifications.WithLabelValues(model.NotificationTypeMedicineRequest, status).Inc()

	subject := fmt.Sprintf("New medicine request from %s", residentName)
	message := fmt.Sprintf("%s requested %s.", residentName, medicineName)
	if logErr := s.LogEmailNotification(ctx, bhw.ID, model.NotificationTypeMedicineRequest, subject, message, sent); logErr != nil {
		log.Error(logErr, "Failed to record notification", "bhw_id", bhw.ID)
	}

	return sent
}
