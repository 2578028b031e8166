package services

import (
	"context"
	"time"

	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// stalePaymentAge is how long a payment may sit pending before the daily
// reminder counts it
const stalePaymentAge = 7 * 24 * time.Hour

// CronService runs the scheduled housekeeping jobs
type CronService struct {
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	notifier    Notifier
	log         *logrus.Logger
	cron        *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	notifier Notifier,
	log *logrus.Logger,
) *CronService {
	return &CronService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		log:         log,
		cron:        cron.New(),
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Daily reminder at 08:30
	if _, err := s.cron.AddFunc("30 8 * * *", s.runDailyReminder); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("cron service stopped")
}

// runDailyReminder surfaces members past the picture deadline and payments
// stuck in pending
func (s *CronService) runDailyReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deadline := time.Now().Add(-domain.PictureUploadDeadlineHours * time.Hour)
	overdue, err := s.userRepo.ListPictureOverdue(ctx, deadline)
	if err != nil {
		s.log.WithError(err).Error("daily reminder: listing overdue pictures failed")
		return
	}

	stale, err := s.paymentRepo.CountStalePending(ctx, time.Now().Add(-stalePaymentAge))
	if err != nil {
		s.log.WithError(err).Error("daily reminder: counting stale payments failed")
		return
	}

	if len(overdue) == 0 && stale == 0 {
		return
	}

	if s.notifier != nil {
		s.notifier.NotifyPendingReminder(len(overdue), stale)
	}
}
