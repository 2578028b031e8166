package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentServiceForTest() (*PaymentService, *fakePaymentRepo, *fakeActivityRepo, *fakeNotifier) {
	paymentRepo := newFakePaymentRepo()
	userRepo := newFakeUserRepo()
	activityRepo := newFakeActivityRepo()
	notifier := &fakeNotifier{}
	log := logrus.New()
	svc := NewPaymentService(paymentRepo, userRepo, activityRepo, notifier, log)
	return svc, paymentRepo, activityRepo, notifier
}

func TestCreatePayment(t *testing.T) {
	svc, _, _, _ := newPaymentServiceForTest()

	payment, err := svc.Create(context.Background(), 7, &CreatePaymentInput{
		Amount:        float64(domain.MembershipFee),
		Provider:      domain.ProviderMpesa,
		TransactionID: "MP123456",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, uint(7), payment.UserID)
	assert.NotEmpty(t, payment.Reference)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, "MP123456", *payment.TransactionID)
	assert.Nil(t, payment.ConfirmedBy)
}

func TestCreatePaymentDuplicateTransaction(t *testing.T) {
	svc, _, _, _ := newPaymentServiceForTest()

	input := &CreatePaymentInput{
		Amount:        15000,
		Provider:      domain.ProviderMpesa,
		TransactionID: "MP123456",
	}
	_, err := svc.Create(context.Background(), 7, input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 8, input)
	assert.ErrorIs(t, err, domain.ErrDuplicateTransaction)

	// Same transaction id under a different provider is a new payment.
	_, err = svc.Create(context.Background(), 8, &CreatePaymentInput{
		Amount:        15000,
		Provider:      domain.ProviderBank,
		TransactionID: "MP123456",
	})
	assert.NoError(t, err)
}

func TestCreatePaymentWithoutTransactionID(t *testing.T) {
	svc, _, _, _ := newPaymentServiceForTest()

	// Cash payments carry no provider transaction id.
	first, err := svc.Create(context.Background(), 7, &CreatePaymentInput{
		Amount:   15000,
		Provider: domain.ProviderCash,
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), 7, &CreatePaymentInput{
		Amount:   15000,
		Provider: domain.ProviderCash,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Reference, second.Reference)
}

func TestCreatePaymentInvalidInput(t *testing.T) {
	svc, _, _, _ := newPaymentServiceForTest()

	_, err := svc.Create(context.Background(), 7, &CreatePaymentInput{
		Amount:   -5,
		Provider: domain.ProviderMpesa,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), 7, &CreatePaymentInput{
		Amount:   15000,
		Provider: "paypal",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirmPayment(t *testing.T) {
	svc, repo, activity, notifier := newPaymentServiceForTest()
	payment := repo.add(&models.Payment{UserID: 7, Amount: 15000, Provider: domain.ProviderMpesa, Reference: "ref-1", Status: domain.PaymentPending})

	confirmed, err := svc.Confirm(context.Background(), payment.ID, 99, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedBy)
	assert.Equal(t, uint(99), *confirmed.ConfirmedBy)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, _, _, events := notifier.counts()
	assert.Equal(t, 1, events)
	assert.Len(t, activity.byType(models.ActivityConfirmPayment), 1)
}

func TestConfirmPaymentReplayKeepsOriginalConfirmer(t *testing.T) {
	svc, repo, activity, notifier := newPaymentServiceForTest()
	payment := repo.add(&models.Payment{UserID: 7, Amount: 15000, Provider: domain.ProviderMpesa, Reference: "ref-1", Status: domain.PaymentPending})

	first, err := svc.Confirm(context.Background(), payment.ID, 99, RequestMeta{})
	require.NoError(t, err)

	// Admin B replays the confirmation. The stored record wins.
	second, err := svc.Confirm(context.Background(), payment.ID, 100, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentConfirmed, second.Status)
	assert.Equal(t, *first.ConfirmedBy, *second.ConfirmedBy)
	assert.Equal(t, first.ConfirmedAt.Unix(), second.ConfirmedAt.Unix())

	_, _, _, events := notifier.counts()
	assert.Equal(t, 1, events, "replay must not emit a second event")
	assert.Len(t, activity.byType(models.ActivityConfirmPayment), 1)
}

func TestConfirmFailedPayment(t *testing.T) {
	svc, repo, _, _ := newPaymentServiceForTest()
	payment := repo.add(&models.Payment{UserID: 7, Amount: 15000, Provider: domain.ProviderMpesa, Reference: "ref-1", Status: domain.PaymentFailed})

	_, err := svc.Confirm(context.Background(), payment.ID, 99, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrPaymentAlreadyFailed)

	stored, getErr := repo.GetByID(context.Background(), payment.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.PaymentFailed, stored.Status)
	assert.Nil(t, stored.ConfirmedBy)
}

func TestConfirmUnknownPayment(t *testing.T) {
	svc, _, _, _ := newPaymentServiceForTest()

	_, err := svc.Confirm(context.Background(), 424242, 99, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestConcurrentConfirmsTransitionOnce(t *testing.T) {
	svc, repo, activity, notifier := newPaymentServiceForTest()
	payment := repo.add(&models.Payment{UserID: 7, Amount: 15000, Provider: domain.ProviderMpesa, Reference: "ref-1", Status: domain.PaymentPending})

	const admins = 10
	var wg sync.WaitGroup
	errs := make([]error, admins)
	results := make([]*models.Payment, admins)

	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Confirm(context.Background(), payment.ID, uint(100+i), RequestMeta{})
		}(i)
	}
	wg.Wait()

	var confirmer uint
	for i := 0; i < admins; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i].ConfirmedBy)
		if confirmer == 0 {
			confirmer = *results[i].ConfirmedBy
		}
		assert.Equal(t, confirmer, *results[i].ConfirmedBy, "every caller sees the same confirmer")
	}

	_, _, _, events := notifier.counts()
	assert.Equal(t, 1, events, "exactly one transition event")
	assert.Len(t, activity.byType(models.ActivityConfirmPayment), 1)
}

func TestGetByIDOwnerScope(t *testing.T) {
	svc, repo, _, _ := newPaymentServiceForTest()
	payment := repo.add(&models.Payment{UserID: 7, Amount: 15000, Provider: domain.ProviderCash, Reference: "ref-1", Status: domain.PaymentPending})

	// Owner reads their own payment.
	_, err := svc.GetByID(context.Background(), payment.ID, 7, false)
	assert.NoError(t, err)

	// Another member is refused.
	_, err = svc.GetByID(context.Background(), payment.ID, 8, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Admins see everything.
	_, err = svc.GetByID(context.Background(), payment.ID, 8, true)
	assert.NoError(t, err)
}

func TestCountStalePending(t *testing.T) {
	_, repo, _, _ := newPaymentServiceForTest()
	old := repo.add(&models.Payment{UserID: 7, Amount: 15000, Provider: domain.ProviderCash, Reference: "ref-old", Status: domain.PaymentPending})
	old.CreatedAt = time.Now().Add(-14 * 24 * time.Hour)
	repo.add(&models.Payment{UserID: 8, Amount: 15000, Provider: domain.ProviderCash, Reference: "ref-new", Status: domain.PaymentPending})

	count, err := repo.CountStalePending(context.Background(), time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
