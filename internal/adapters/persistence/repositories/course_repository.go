package repositories

import (
	"context"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// CourseQuerySpec whitelists the queryable fields for course listings
var CourseQuerySpec = query.Spec{
	SearchFields: []string{"code", "name"},
	OrderFields: map[string]string{
		"code": "code",
		"name": "name",
	},
	IntFilters: map[string]string{
		"department": "department_id",
	},
	DefaultOrder: "code ASC",
}

// courseRepository implements CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// GetByID gets a course by ID
func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List lists courses with search, filters, ordering, and pagination
func (r *courseRepository) List(ctx context.Context, params *query.Params) ([]*models.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Course{})

	q, err := CourseQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []*models.Course
	err = q.Preload("Department").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&courses).Error

	return courses, total, err
}
