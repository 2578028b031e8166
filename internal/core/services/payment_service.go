package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentService handles membership fee payments and their confirmation
type PaymentService struct {
	paymentRepo  repositories.PaymentRepository
	userRepo     repositories.UserRepository
	activityRepo repositories.ActivityLogRepository
	notifier     Notifier
	log          *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityLogRepository,
	notifier Notifier,
	log *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		log:          log,
	}
}

// CreatePaymentInput represents payment submission input
type CreatePaymentInput struct {
	Amount        float64                `json:"amount" validate:"required,gt=0"`
	Provider      domain.PaymentProvider `json:"provider" validate:"required"`
	TransactionID string                 `json:"transaction_id" validate:"omitempty,max=100"`
}

// Create records a submitted membership payment as pending. A provider
// transaction id may only be recorded once, resubmitting it is a conflict.
func (s *PaymentService) Create(ctx context.Context, userID uint, input *CreatePaymentInput) (*models.Payment, error) {
	if !input.Provider.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	if input.TransactionID != "" {
		exists, err := s.paymentRepo.ExistsByProviderTxn(ctx, input.Provider, input.TransactionID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateTransaction
		}
	}

	payment := &models.Payment{
		UserID:    userID,
		Amount:    input.Amount,
		Provider:  input.Provider,
		Reference: uuid.New().String(),
		Status:    domain.PaymentPending,
	}
	if input.TransactionID != "" {
		payment.TransactionID = &input.TransactionID
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// The unique (provider, transaction_id) index backstops the
		// existence check under concurrent submissions.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateTransaction
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"user_id":    userID,
		"provider":   payment.Provider,
	}).Info("payment submitted")

	return payment, nil
}

// GetByID gets a payment. Members see only their own payments, admins see all.
func (s *PaymentService) GetByID(ctx context.Context, id uint, requesterID uint, isAdmin bool) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if !isAdmin && payment.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	return payment, nil
}

// List lists all payments (admin view)
func (s *PaymentService) List(ctx context.Context, params *query.Params) ([]*models.Payment, int64, error) {
	return s.paymentRepo.List(ctx, params)
}

// ListMine lists the requesting member's own payments
func (s *PaymentService) ListMine(ctx context.Context, userID uint, params *query.Params) ([]*models.Payment, int64, error) {
	return s.paymentRepo.ListByUser(ctx, userID, params)
}

// Confirm settles a pending payment. Confirming an already confirmed payment
// returns the stored record untouched, the original confirmer and timestamp
// survive any replay. A failed payment can never be confirmed.
func (s *PaymentService) Confirm(ctx context.Context, paymentID, adminID uint, meta RequestMeta) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	switch payment.Status {
	case domain.PaymentConfirmed:
		return payment, nil
	case domain.PaymentFailed:
		return nil, domain.ErrPaymentAlreadyFailed
	}

	ok, err := s.paymentRepo.ConfirmIf(ctx, paymentID, adminID, time.Now())
	if err != nil {
		return nil, err
	}

	payment, err = s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !ok {
		// Raced with another admin or a failure marking. The stored record
		// decides: confirmed means the idempotent path, failed is terminal.
		if payment.Status == domain.PaymentFailed {
			return nil, domain.ErrPaymentAlreadyFailed
		}
		return payment, nil
	}

	entry := &models.ActivityLog{
		UserID:       adminID,
		TargetUserID: &payment.UserID,
		ActivityType: models.ActivityConfirmPayment,
		Description:  fmt.Sprintf("payment %s confirmed", payment.Reference),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.log.WithError(err).WithField("payment_id", paymentID).Error("failed to write activity log")
	}

	if s.notifier != nil {
		s.notifier.NotifyPaymentConfirmed(payment, adminID)
	}

	return payment, nil
}
