package repositories

import (
	"context"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// DepartmentQuerySpec whitelists the queryable fields for department listings
var DepartmentQuerySpec = query.Spec{
	SearchFields: []string{"name", "description"},
	OrderFields: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	DefaultOrder: "name ASC",
}

// memberCountSelect recomputes the approved-member count per row. The count
// is derived state and is never written back to the departments table.
const memberCountSelect = "departments.*, " +
	"(SELECT COUNT(*) FROM users WHERE users.department_id = departments.id " +
	"AND users.approval_status = 'approved' AND users.deleted_at IS NULL) AS member_count"

// departmentRepository implements DepartmentRepository interface
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create creates a new department
func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

// GetByID gets a department by ID. The member count is left to the caller,
// which serves it from the cache or counts approved users directly.
func (r *departmentRepository) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).
		Where("departments.id = ?", id).
		First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// GetBySlug gets a department by slug with its member count
func (r *departmentRepository) GetBySlug(ctx context.Context, slug string) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).
		Select(memberCountSelect).
		Where("departments.slug = ?", slug).
		First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// List lists departments with member counts
func (r *departmentRepository) List(ctx context.Context, params *query.Params) ([]*models.Department, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Department{})

	q, err := DepartmentQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var departments []*models.Department
	err = q.Select(memberCountSelect).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&departments).Error

	return departments, total, err
}

// Update updates a department
func (r *departmentRepository) Update(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

// Delete removes a department unless other records still reference it
func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		referencing := []interface{}{
			&models.User{},
			&models.Course{},
			&models.Project{},
			&models.Event{},
			&models.Announcement{},
		}
		for _, model := range referencing {
			var count int64
			if err := tx.Model(model).Where("department_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrDepartmentInUse
			}
		}

		result := tx.Delete(&models.Department{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
