package repositories

import (
	"context"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// Query specs for the content resources
var (
	ProjectQuerySpec = query.Spec{
		SearchFields: []string{"title", "description"},
		OrderFields: map[string]string{
			"title":      "title",
			"created_at": "created_at",
		},
		IntFilters: map[string]string{
			"department": "department_id",
		},
		BoolFilters: map[string]string{
			"featured": "featured",
		},
		DefaultOrder: "created_at DESC",
	}

	EventQuerySpec = query.Spec{
		SearchFields: []string{"title", "description", "location"},
		OrderFields: map[string]string{
			"title":      "title",
			"event_date": "event_date",
			"created_at": "created_at",
		},
		IntFilters: map[string]string{
			"department": "department_id",
		},
		DefaultOrder: "event_date ASC",
	}

	AnnouncementQuerySpec = query.Spec{
		SearchFields: []string{"title", "content"},
		OrderFields: map[string]string{
			"title":      "title",
			"created_at": "created_at",
		},
		Filters: map[string]string{
			"announcement_type": "announcement_type",
		},
		IntFilters: map[string]string{
			"department": "department_id",
		},
		BoolFilters: map[string]string{
			"is_published": "is_published",
		},
		DefaultOrder: "created_at DESC",
	}
)

// projectRepository implements ProjectRepository interface
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, params *query.Params) ([]*models.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{})

	q, err := ProjectQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err = q.Preload("Department").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&projects).Error

	return projects, total, err
}

func (r *projectRepository) ListFeatured(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("featured = ?", true).
		Order("created_at DESC, id ASC").
		Find(&projects).Error
	return projects, err
}

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, params *query.Params) ([]*models.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Event{})

	q, err := EventQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []*models.Event
	err = q.Preload("Department").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&events).Error

	return events, total, err
}

func (r *eventRepository) ListUpcoming(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("event_date >= ?", time.Now()).
		Order("event_date ASC, id ASC").
		Find(&events).Error
	return events, err
}

// announcementRepository implements AnnouncementRepository interface
type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&announcement).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) List(ctx context.Context, params *query.Params) ([]*models.Announcement, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Announcement{})

	q, err := AnnouncementQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var announcements []*models.Announcement
	err = q.Preload("Department").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&announcements).Error

	return announcements, total, err
}

func (r *announcementRepository) ListRecent(ctx context.Context, limit int) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepository) ListUrgent(ctx context.Context) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	err := r.db.WithContext(ctx).
		Where("is_published = ? AND announcement_type = ?", true, domain.AnnouncementUrgent).
		Order("created_at DESC, id ASC").
		Find(&announcements).Error
	return announcements, err
}
