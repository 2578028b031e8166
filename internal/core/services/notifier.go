package services

import (
	"github.com/sirupsen/logrus"

	"ictclub-portal/internal/adapters/persistence/models"
)

// Notifier receives exactly one event per actual state change. Replayed
// approvals and confirmations emit nothing.
type Notifier interface {
	NotifyMemberRegistered(user *models.User)
	NotifyMemberApproved(user *models.User, adminID uint)
	NotifyMemberRejected(user *models.User, adminID uint)
	NotifyPaymentConfirmed(payment *models.Payment, adminID uint)
	NotifyPendingReminder(pictureOverdue int, stalePayments int64)
}

// LogNotifier writes notification events to the structured log. Stands in for
// the club's mail sender; swap the implementation to deliver email.
type LogNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyMemberRegistered(user *models.User) {
	n.log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"reg_number": user.RegNumber,
	}).Info("member registered, pending approval")
}

func (n *LogNotifier) NotifyMemberApproved(user *models.User, adminID uint) {
	n.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"admin_id": adminID,
	}).Info("membership approved")
}

func (n *LogNotifier) NotifyMemberRejected(user *models.User, adminID uint) {
	n.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"admin_id": adminID,
	}).Info("membership rejected")
}

func (n *LogNotifier) NotifyPaymentConfirmed(payment *models.Payment, adminID uint) {
	n.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"user_id":    payment.UserID,
		"admin_id":   adminID,
		"amount":     payment.Amount,
	}).Info("payment confirmed")
}

func (n *LogNotifier) NotifyPendingReminder(pictureOverdue int, stalePayments int64) {
	n.log.WithFields(logrus.Fields{
		"picture_overdue": pictureOverdue,
		"stale_payments":  stalePayments,
	}).Info("daily pending-items reminder")
}
