package services

import (
	"context"
	"sync"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// In-memory repository fakes. The conditional updates are guarded by a
// mutex so the concurrency tests exercise the same check-and-set contract
// the store provides.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByRegNumber(ctx context.Context, regNumber string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RegNumber == regNumber {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetRole(ctx context.Context, id uint) (domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return user.Role, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, params *query.Params) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListByDepartment(ctx context.Context, departmentID uint, params *query.Params) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ExistsByRegNumber(ctx context.Context, regNumber string) (bool, error) {
	_, err := r.GetByRegNumber(ctx, regNumber)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) UpdateApprovalStatusIf(ctx context.Context, id uint, from, to domain.ApprovalStatus, actorID uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.ApprovalStatus != from {
		return false, nil
	}
	user.ApprovalStatus = to
	user.ApprovedBy = &actorID
	user.ApprovedAt = &at
	return true, nil
}

func (r *fakeUserRepo) SetPictureUploaded(ctx context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PictureUploadedAt = &at
	return nil
}

func (r *fakeUserRepo) ListPictureOverdue(ctx context.Context, deadline time.Time) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if u.PictureUploadedAt == nil && u.CreatedAt.Before(deadline) && u.ApprovalStatus == domain.ApprovalApproved {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountApprovedByDepartment(ctx context.Context, departmentID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID && u.ApprovalStatus == domain.ApprovalApproved {
			count++
		}
	}
	return count, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	nextID   uint
	payments map[uint]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1, payments: make(map[uint]*models.Payment)}
}

func (r *fakePaymentRepo) add(payment *models.Payment) *models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == 0 {
		payment.ID = r.nextID
		r.nextID++
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	r.payments[payment.ID] = payment
	return payment
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.TransactionID != nil {
		exists, _ := r.ExistsByProviderTxn(ctx, payment.Provider, *payment.TransactionID)
		if exists {
			return gorm.ErrDuplicatedKey
		}
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}
	r.add(payment)
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) List(ctx context.Context, params *query.Params) ([]*models.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Payment
	for _, p := range r.payments {
		copied := *p
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) ListByUser(ctx context.Context, userID uint, params *query.Params) ([]*models.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) ExistsByProviderTxn(ctx context.Context, provider domain.PaymentProvider, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.Provider == provider && p.TransactionID != nil && *p.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) ConfirmIf(ctx context.Context, id uint, adminID uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok || payment.Status != domain.PaymentPending {
		return false, nil
	}
	payment.Status = domain.PaymentConfirmed
	payment.ConfirmedBy = &adminID
	payment.ConfirmedAt = &at
	return true, nil
}

func (r *fakePaymentRepo) CountStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.payments {
		if p.Status == domain.PaymentPending && p.CreatedAt.Before(olderThan) {
			count++
		}
	}
	return count, nil
}

type fakeDepartmentRepo struct {
	mu          sync.Mutex
	nextID      uint
	departments map[uint]*models.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{nextID: 1, departments: make(map[uint]*models.Department)}
}

func (r *fakeDepartmentRepo) add(department *models.Department) *models.Department {
	r.mu.Lock()
	defer r.mu.Unlock()
	if department.ID == 0 {
		department.ID = r.nextID
		r.nextID++
	}
	r.departments[department.ID] = department
	return department
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	r.mu.Lock()
	for _, d := range r.departments {
		if d.Name == department.Name || d.Slug == department.Slug {
			r.mu.Unlock()
			return gorm.ErrDuplicatedKey
		}
	}
	r.mu.Unlock()
	r.add(department)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	department, ok := r.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *department
	return &copied, nil
}

func (r *fakeDepartmentRepo) GetBySlug(ctx context.Context, slug string) (*models.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.departments {
		if d.Slug == slug {
			copied := *d
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDepartmentRepo) List(ctx context.Context, params *query.Params) ([]*models.Department, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Department
	for _, d := range r.departments {
		copied := *d
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.departments[department.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *department
	r.departments[department.ID] = &copied
	return nil
}

func (r *fakeDepartmentRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.departments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.departments, id)
	return nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  uint
	courses map[uint]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{nextID: 1, courses: make(map[uint]*models.Course)}
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	course.ID = r.nextID
	r.nextID++
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) List(ctx context.Context, params *query.Params) ([]*models.Course, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Course
	for _, c := range r.courses {
		copied := *c
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*models.ActivityLog
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) ListByTarget(ctx context.Context, targetUserID uint, params *query.Params) ([]*models.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ActivityLog
	for _, e := range r.entries {
		if e.TargetUserID != nil && *e.TargetUserID == targetUserID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeActivityRepo) byType(activityType string) []*models.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ActivityLog
	for _, e := range r.entries {
		if e.ActivityType == activityType {
			out = append(out, e)
		}
	}
	return out
}

// fakeNotifier counts emitted events
type fakeNotifier struct {
	mu         sync.Mutex
	registered int
	approved   int
	rejected   int
	confirmed  int
	reminders  int
}

func (n *fakeNotifier) NotifyMemberRegistered(user *models.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registered++
}

func (n *fakeNotifier) NotifyMemberApproved(user *models.User, adminID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved++
}

func (n *fakeNotifier) NotifyMemberRejected(user *models.User, adminID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected++
}

func (n *fakeNotifier) NotifyPaymentConfirmed(payment *models.Payment, adminID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed++
}

func (n *fakeNotifier) NotifyPendingReminder(pictureOverdue int, stalePayments int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders++
}

func (n *fakeNotifier) counts() (registered, approved, rejected, confirmed int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registered, n.approved, n.rejected, n.confirmed
}
