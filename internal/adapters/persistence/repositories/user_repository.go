package repositories

import (
	"context"
	"strconv"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// UserQuerySpec whitelists the queryable fields for user listings.
// The is_approved filter is interpreted here rather than as a plain column.
var UserQuerySpec = query.Spec{
	SearchFields: []string{"full_name", "email", "reg_number"},
	OrderFields: map[string]string{
		"full_name":  "full_name",
		"reg_number": "reg_number",
		"created_at": "created_at",
	},
	Filters: map[string]string{
		"is_approved": "",
	},
	IntFilters: map[string]string{
		"department": "department_id",
	},
	DefaultOrder: "created_at DESC",
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID with relations
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Course").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByRegNumber gets a user by registration number
func (r *userRepository) GetByRegNumber(ctx context.Context, regNumber string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("reg_number = ?", regNumber).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRole reads the user's current role. The authorization guard calls this
// on every privileged request so role changes take effect immediately.
func (r *userRepository) GetRole(ctx context.Context, id uint) (domain.Role, error) {
	var role string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Pluck("role", &role).Error
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", gorm.ErrRecordNotFound
	}
	return domain.Role(role), nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// List lists users with search, filters, ordering, and pagination
func (r *userRepository) List(ctx context.Context, params *query.Params) ([]*models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})

	if v, ok := params.Filters["is_approved"]; ok {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			return nil, 0, query.ErrInvalidFilterValue
		}
		if approved {
			q = q.Where("approval_status = ?", domain.ApprovalApproved)
		} else {
			q = q.Where("approval_status <> ?", domain.ApprovalApproved)
		}
	}

	q, err := UserQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err = q.Preload("Department").Preload("Course").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&users).Error

	return users, total, err
}

// ListByDepartment lists users belonging to one department
func (r *userRepository) ListByDepartment(ctx context.Context, departmentID uint, params *query.Params) ([]*models.User, int64, error) {
	params.Filters["department"] = strconv.FormatUint(uint64(departmentID), 10)
	return r.List(ctx, params)
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByRegNumber checks if registration number exists
func (r *userRepository) ExistsByRegNumber(ctx context.Context, regNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("reg_number = ?", regNumber).Count(&count).Error
	return count > 0, err
}

// UpdateApprovalStatusIf performs the atomic check-and-set for approval
// transitions. The WHERE clause carries the expected current status, so of
// two concurrent callers only one row update succeeds.
func (r *userRepository) UpdateApprovalStatusIf(ctx context.Context, id uint, from, to domain.ApprovalStatus, actorID uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND approval_status = ?", id, from).
		Updates(map[string]interface{}{
			"approval_status": to,
			"approved_by":     actorID,
			"approved_at":     at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetPictureUploaded records the profile picture upload timestamp
func (r *userRepository) SetPictureUploaded(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("picture_uploaded_at", at).Error
}

// ListPictureOverdue lists approved members who registered before the given
// deadline and never uploaded a profile picture
func (r *userRepository) ListPictureOverdue(ctx context.Context, deadline time.Time) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("picture_uploaded_at IS NULL AND created_at < ? AND approval_status = ?", deadline, domain.ApprovalApproved).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

// CountApprovedByDepartment counts approved members in a department
func (r *userRepository) CountApprovedByDepartment(ctx context.Context, departmentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("department_id = ? AND approval_status = ?", departmentID, domain.ApprovalApproved).
		Count(&count).Error
	return count, err
}
