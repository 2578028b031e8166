package repositories

import (
	"context"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// PaymentQuerySpec whitelists the queryable fields for payment listings
var PaymentQuerySpec = query.Spec{
	SearchFields: []string{"reference", "transaction_id"},
	OrderFields: map[string]string{
		"amount":       "amount",
		"created_at":   "created_at",
		"confirmed_at": "confirmed_at",
	},
	Filters: map[string]string{
		"provider": "provider",
		"status":   "status",
	},
	DefaultOrder: "created_at DESC",
}

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID with relations
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Confirmer").
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List lists payments with filters, ordering, and pagination
func (r *paymentRepository) List(ctx context.Context, params *query.Params) ([]*models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})

	q, err := PaymentQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*models.Payment
	err = q.Preload("User").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&payments).Error

	return payments, total, err
}

// ListByUser lists one member's payments
func (r *paymentRepository) ListByUser(ctx context.Context, userID uint, params *query.Params) ([]*models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{}).Where("user_id = ?", userID)

	q, err := PaymentQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*models.Payment
	err = q.Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&payments).Error

	return payments, total, err
}

// ExistsByProviderTxn checks whether a provider transaction was already submitted
func (r *paymentRepository) ExistsByProviderTxn(ctx context.Context, provider domain.PaymentProvider, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("provider = ? AND transaction_id = ?", provider, transactionID).
		Count(&count).Error
	return count > 0, err
}

// ConfirmIf settles a pending payment atomically. The status guard sits in
// the WHERE clause, so a payment already confirmed or failed is left exactly
// as stored and the caller sees RowsAffected 0.
func (r *paymentRepository) ConfirmIf(ctx context.Context, id uint, adminID uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentPending).
		Updates(map[string]interface{}{
			"status":       domain.PaymentConfirmed,
			"confirmed_by": adminID,
			"confirmed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountStalePending counts payments still pending past the given age
func (r *paymentRepository) CountStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", domain.PaymentPending, olderThan).
		Count(&count).Error
	return count, err
}
