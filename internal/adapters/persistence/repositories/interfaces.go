package repositories

import (
	"context"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRegNumber(ctx context.Context, regNumber string) (*models.User, error)
	GetRole(ctx context.Context, id uint) (domain.Role, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, params *query.Params) ([]*models.User, int64, error)
	ListByDepartment(ctx context.Context, departmentID uint, params *query.Params) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRegNumber(ctx context.Context, regNumber string) (bool, error)

	// UpdateApprovalStatusIf transitions approval status from `from` to `to`
	// and records the acting admin, as a single conditional update. Returns
	// false when the row was not in `from` anymore, so concurrent callers
	// cannot overwrite each other.
	UpdateApprovalStatusIf(ctx context.Context, id uint, from, to domain.ApprovalStatus, actorID uint, at time.Time) (bool, error)

	SetPictureUploaded(ctx context.Context, id uint, at time.Time) error
	ListPictureOverdue(ctx context.Context, deadline time.Time) ([]*models.User, error)
	CountApprovedByDepartment(ctx context.Context, departmentID uint) (int64, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, params *query.Params) ([]*models.Payment, int64, error)
	ListByUser(ctx context.Context, userID uint, params *query.Params) ([]*models.Payment, int64, error)
	ExistsByProviderTxn(ctx context.Context, provider domain.PaymentProvider, transactionID string) (bool, error)

	// ConfirmIf settles a pending payment: the status check and the write of
	// confirming admin + timestamp happen in one conditional update. Returns
	// false when the payment was not pending, leaving the stored confirmation
	// record untouched.
	ConfirmIf(ctx context.Context, id uint, adminID uint, at time.Time) (bool, error)

	CountStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

// DepartmentRepository defines department repository interface.
// MemberCount on listed rows is recomputed from the users table per read;
// single-row reads leave it to the caller.
type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id uint) (*models.Department, error)
	GetBySlug(ctx context.Context, slug string) (*models.Department, error)
	List(ctx context.Context, params *query.Params) ([]*models.Department, int64, error)
	Update(ctx context.Context, department *models.Department) error

	// Delete refuses to remove a department that users, courses, projects,
	// events, or announcements still reference.
	Delete(ctx context.Context, id uint) error
}

// CourseRepository defines course repository interface
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, params *query.Params) ([]*models.Course, int64, error)
}

// ProjectRepository defines project repository interface
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	List(ctx context.Context, params *query.Params) ([]*models.Project, int64, error)
	ListFeatured(ctx context.Context) ([]*models.Project, error)
}

// EventRepository defines event repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, params *query.Params) ([]*models.Event, int64, error)
	ListUpcoming(ctx context.Context) ([]*models.Event, error)
}

// AnnouncementRepository defines announcement repository interface
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	List(ctx context.Context, params *query.Params) ([]*models.Announcement, int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Announcement, error)
	ListUrgent(ctx context.Context) ([]*models.Announcement, error)
}

// ActivityLogRepository defines activity log repository interface
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByTarget(ctx context.Context, targetUserID uint, params *query.Params) ([]*models.ActivityLog, int64, error)
}
