package services

import (
	"context"
	"errors"
	"strings"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogService handles departments and courses
type CatalogService struct {
	departmentRepo repositories.DepartmentRepository
	courseRepo     repositories.CourseRepository
	userRepo       repositories.UserRepository
	cache          *Cache
	log            *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	departmentRepo repositories.DepartmentRepository,
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
	cache *Cache,
	log *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		departmentRepo: departmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		cache:          cache,
		log:            log,
	}
}

// DepartmentInput represents department create/update input
type DepartmentInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// Slugify derives a URL slug from a department name
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, "&", "and")
	var b strings.Builder
	prevDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteRune('_')
			prevDash = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// CreateDepartment creates a department
func (s *CatalogService) CreateDepartment(ctx context.Context, input *DepartmentInput) (*models.Department, error) {
	department := &models.Department{
		Name:        input.Name,
		Slug:        Slugify(input.Name),
		Description: input.Description,
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	return department, nil
}

// GetDepartment gets a department with its current member count. The count
// comes from the cache when present, otherwise it is counted from the users
// table and cached. Approval transitions invalidate the cached count.
func (s *CatalogService) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}

	if count, ok := s.cache.GetDepartmentCount(ctx, id); ok {
		department.MemberCount = count
		return department, nil
	}

	count, err := s.userRepo.CountApprovedByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	department.MemberCount = count
	s.cache.SetDepartmentCount(ctx, id, count)

	return department, nil
}

// ListDepartments lists departments with member counts
func (s *CatalogService) ListDepartments(ctx context.Context, params *query.Params) ([]*models.Department, int64, error) {
	return s.departmentRepo.List(ctx, params)
}

// UpdateDepartment updates a department's name and description
func (s *CatalogService) UpdateDepartment(ctx context.Context, id uint, input *DepartmentInput) (*models.Department, error) {
	department, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	department.Name = input.Name
	department.Slug = Slugify(input.Name)
	department.Description = input.Description

	if err := s.departmentRepo.Update(ctx, department); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	return department, nil
}

// DeleteDepartment removes a department. Departments with members, courses,
// or content are never silently cascaded, the delete is refused.
func (s *CatalogService) DeleteDepartment(ctx context.Context, id uint) error {
	err := s.departmentRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDepartmentNotFound
		}
		return err
	}

	s.cache.InvalidateDepartmentCount(ctx, id)
	return nil
}

// CourseInput represents course create input
type CourseInput struct {
	Code         string `json:"code" validate:"required,max=20"`
	Name         string `json:"name" validate:"required,min=2,max=100"`
	DepartmentID uint   `json:"department_id" validate:"required"`
}

// CreateCourse creates a course under a department
func (s *CatalogService) CreateCourse(ctx context.Context, input *CourseInput) (*models.Course, error) {
	if _, err := s.departmentRepo.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}

	course := &models.Course{
		Code:         input.Code,
		Name:         input.Name,
		DepartmentID: input.DepartmentID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	return course, nil
}

// GetCourse gets a course by ID
func (s *CatalogService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return course, nil
}

// ListCourses lists courses
func (s *CatalogService) ListCourses(ctx context.Context, params *query.Params) ([]*models.Course, int64, error) {
	return s.courseRepo.List(ctx, params)
}
