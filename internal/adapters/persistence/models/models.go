package models

import (
	"time"

	"ictclub-portal/internal/core/domain"

	"gorm.io/gorm"
)

// User represents users table. Accounts are created pending and are never
// hard-deleted; membership standing changes only through the approval flow.
type User struct {
	ID                uint                  `gorm:"primaryKey" json:"id"`
	RegNumber         string                `gorm:"uniqueIndex;size:20;not null" json:"reg_number"`
	Email             string                `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password          string                `gorm:"size:255;not null" json:"-"`
	FullName          string                `gorm:"size:100;not null" json:"full_name"`
	DepartmentID      *uint                 `gorm:"index" json:"department_id"`
	CourseID          *uint                 `json:"course_id"`
	Role              domain.Role           `gorm:"size:20;default:'member'" json:"role"`
	ApprovalStatus    domain.ApprovalStatus `gorm:"size:20;default:'pending';index" json:"approval_status"`
	ApprovedBy        *uint                 `json:"approved_by"`
	ApprovedAt        *time.Time            `json:"approved_at"`
	PictureUploadedAt *time.Time            `json:"picture_uploaded_at"`
	CreatedAt         time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt        `gorm:"index" json:"-"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Course     *Course     `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Approver   *User       `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// PictureUploadDeadline returns the cutoff for uploading a profile picture
func (u *User) PictureUploadDeadline() time.Time {
	return u.CreatedAt.Add(domain.PictureUploadDeadlineHours * time.Hour)
}

// IsPictureOverdue reports whether the member missed the picture deadline
func (u *User) IsPictureOverdue() bool {
	return u.PictureUploadedAt == nil && time.Now().After(u.PictureUploadDeadline())
}

// UserResponse DTO
type UserResponse struct {
	ID                uint                  `json:"id"`
	RegNumber         string                `json:"reg_number"`
	Email             string                `json:"email"`
	FullName          string                `json:"full_name"`
	Role              domain.Role           `json:"role"`
	ApprovalStatus    domain.ApprovalStatus `json:"approval_status"`
	DepartmentID      *uint                 `json:"department_id"`
	DepartmentName    string                `json:"department_name,omitempty"`
	CourseID          *uint                 `json:"course_id"`
	CourseName        string                `json:"course_name,omitempty"`
	ApprovedBy        *uint                 `json:"approved_by"`
	ApprovedAt        *time.Time            `json:"approved_at"`
	PictureUploadedAt *time.Time            `json:"picture_uploaded_at"`
	CreatedAt         time.Time             `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:                u.ID,
		RegNumber:         u.RegNumber,
		Email:             u.Email,
		FullName:          u.FullName,
		Role:              u.Role,
		ApprovalStatus:    u.ApprovalStatus,
		DepartmentID:      u.DepartmentID,
		CourseID:          u.CourseID,
		ApprovedBy:        u.ApprovedBy,
		ApprovedAt:        u.ApprovedAt,
		PictureUploadedAt: u.PictureUploadedAt,
		CreatedAt:         u.CreatedAt,
	}

	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	if u.Course != nil {
		resp.CourseName = u.Course.Name
	}

	return resp
}

// Department represents departments table. MemberCount is computed from the
// users table at read time, never stored.
type Department struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	MemberCount int64 `gorm:"->;-:migration" json:"member_count"`
}

func (Department) TableName() string {
	return "departments"
}

// Course represents courses table
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	DepartmentID uint           `gorm:"index;not null" json:"department_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Payment represents payments table. Rows are an immutable audit trail:
// a failed payment is resubmitted as a new row, never edited. The
// (provider, transaction_id) pair is unique when a transaction id is present.
type Payment struct {
	ID            uint                   `gorm:"primaryKey" json:"id"`
	UserID        uint                   `gorm:"index;not null" json:"user_id"`
	Amount        float64                `gorm:"type:decimal(12,2);not null" json:"amount"`
	Provider      domain.PaymentProvider `gorm:"size:20;not null;uniqueIndex:idx_provider_txn" json:"provider"`
	TransactionID *string                `gorm:"size:100;uniqueIndex:idx_provider_txn" json:"transaction_id"`
	Reference     string                 `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	Status        domain.PaymentStatus   `gorm:"size:20;default:'pending';index" json:"status"`
	ConfirmedBy   *uint                  `json:"confirmed_by"`
	ConfirmedAt   *time.Time             `json:"confirmed_at"`
	CreatedAt     time.Time              `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	User      *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Confirmer *User `gorm:"foreignKey:ConfirmedBy" json:"confirmer,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID            uint                   `json:"id"`
	UserID        uint                   `json:"user_id"`
	UserName      string                 `json:"user_name,omitempty"`
	Amount        float64                `json:"amount"`
	Provider      domain.PaymentProvider `json:"provider"`
	TransactionID *string                `json:"transaction_id"`
	Reference     string                 `json:"reference"`
	Status        domain.PaymentStatus   `json:"status"`
	ConfirmedBy   *uint                  `json:"confirmed_by"`
	ConfirmedAt   *time.Time             `json:"confirmed_at"`
	CreatedAt     time.Time              `json:"created_at"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Provider:      p.Provider,
		TransactionID: p.TransactionID,
		Reference:     p.Reference,
		Status:        p.Status,
		ConfirmedBy:   p.ConfirmedBy,
		ConfirmedAt:   p.ConfirmedAt,
		CreatedAt:     p.CreatedAt,
	}

	if p.User != nil {
		resp.UserName = p.User.FullName
	}

	return resp
}

// Project represents projects table
type Project struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Slug         string         `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	DepartmentID *uint          `gorm:"index" json:"department_id"`
	Featured     bool           `gorm:"default:false;index" json:"featured"`
	CreatedBy    uint           `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Event represents events table
type Event struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	EventDate    time.Time      `gorm:"not null;index" json:"event_date"`
	Location     string         `gorm:"size:200" json:"location"`
	DepartmentID *uint          `gorm:"index" json:"department_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// Announcement represents announcements table. A nil DepartmentID means
// the announcement is club-wide.
type Announcement struct {
	ID               uint                    `gorm:"primaryKey" json:"id"`
	Title            string                  `gorm:"size:200;not null" json:"title"`
	Content          string                  `gorm:"type:text" json:"content"`
	AnnouncementType domain.AnnouncementType `gorm:"size:20;default:'general';index" json:"announcement_type"`
	DepartmentID     *uint                   `gorm:"index" json:"department_id"`
	IsPublished      bool                    `gorm:"default:false" json:"is_published"`
	CreatedAt        time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt          `gorm:"index" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// IsUrgent reports whether the announcement is flagged urgent
func (a *Announcement) IsUrgent() bool {
	return a.AnnouncementType == domain.AnnouncementUrgent
}

// Activity types
const (
	ActivityRegister        = "register"
	ActivityApprove         = "approve"
	ActivityReject          = "reject"
	ActivityApproveOverride = "approve_override"
	ActivityRejectOverride  = "reject_override"
	ActivityConfirmPayment  = "confirm_payment"
	ActivityProfileUpdate   = "profile_update"
	ActivityPictureUpload   = "picture_upload"
)

// ActivityLog records privileged and account actions for auditing
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	TargetUserID *uint     `gorm:"index" json:"target_user_id"`
	ActivityType string    `gorm:"size:30;not null;index" json:"activity_type"`
	Description  string    `gorm:"type:text" json:"description"`
	IPAddress    string    `gorm:"size:50" json:"ip_address"`
	UserAgent    string    `gorm:"type:text" json:"user_agent"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Actor  *User `gorm:"foreignKey:UserID" json:"actor,omitempty"`
	Target *User `gorm:"foreignKey:TargetUserID" json:"target,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Department{},
		&Course{},
		&User{},
		&Payment{},
		&Project{},
		&Event{},
		&Announcement{},
		&ActivityLog{},
	)
}
