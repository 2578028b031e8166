package services

import (
	"context"
	"errors"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// recentAnnouncementsLimit caps the recent-announcements feed
const recentAnnouncementsLimit = 10

// ContentService handles projects, events, and announcements
type ContentService struct {
	projectRepo      repositories.ProjectRepository
	eventRepo        repositories.EventRepository
	announcementRepo repositories.AnnouncementRepository
	cache            *Cache
	log              *logrus.Logger
}

// NewContentService creates a new content service
func NewContentService(
	projectRepo repositories.ProjectRepository,
	eventRepo repositories.EventRepository,
	announcementRepo repositories.AnnouncementRepository,
	cache *Cache,
	log *logrus.Logger,
) *ContentService {
	return &ContentService{
		projectRepo:      projectRepo,
		eventRepo:        eventRepo,
		announcementRepo: announcementRepo,
		cache:            cache,
		log:              log,
	}
}

// ProjectInput represents project create input
type ProjectInput struct {
	Title        string `json:"title" validate:"required,min=2,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	DepartmentID *uint  `json:"department_id"`
	Featured     bool   `json:"featured"`
}

// CreateProject creates a project
func (s *ContentService) CreateProject(ctx context.Context, input *ProjectInput, creatorID uint) (*models.Project, error) {
	project := &models.Project{
		Title:        input.Title,
		Slug:         Slugify(input.Title),
		Description:  input.Description,
		DepartmentID: input.DepartmentID,
		Featured:     input.Featured,
		CreatedBy:    creatorID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	return project, nil
}

// GetProject gets a project by ID
func (s *ContentService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListProjects lists projects
func (s *ContentService) ListProjects(ctx context.Context, params *query.Params) ([]*models.Project, int64, error) {
	return s.projectRepo.List(ctx, params)
}

// ListFeaturedProjects lists the showcase projects
func (s *ContentService) ListFeaturedProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projectRepo.ListFeatured(ctx)
}

// EventInput represents event create input
type EventInput struct {
	Title        string    `json:"title" validate:"required,min=2,max=200"`
	Description  string    `json:"description" validate:"max=5000"`
	EventDate    time.Time `json:"event_date" validate:"required"`
	Location     string    `json:"location" validate:"max=200"`
	DepartmentID *uint     `json:"department_id"`
}

// CreateEvent creates an event
func (s *ContentService) CreateEvent(ctx context.Context, input *EventInput) (*models.Event, error) {
	event := &models.Event{
		Title:        input.Title,
		Description:  input.Description,
		EventDate:    input.EventDate,
		Location:     input.Location,
		DepartmentID: input.DepartmentID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// GetEvent gets an event by ID
func (s *ContentService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListEvents lists events
func (s *ContentService) ListEvents(ctx context.Context, params *query.Params) ([]*models.Event, int64, error) {
	return s.eventRepo.List(ctx, params)
}

// ListUpcomingEvents lists events that have not happened yet
func (s *ContentService) ListUpcomingEvents(ctx context.Context) ([]*models.Event, error) {
	return s.eventRepo.ListUpcoming(ctx)
}

// AnnouncementInput represents announcement create input
type AnnouncementInput struct {
	Title            string                  `json:"title" validate:"required,min=2,max=200"`
	Content          string                  `json:"content" validate:"required"`
	AnnouncementType domain.AnnouncementType `json:"announcement_type" validate:"required"`
	DepartmentID     *uint                   `json:"department_id"`
	IsPublished      bool                    `json:"is_published"`
}

// CreateAnnouncement creates an announcement
func (s *ContentService) CreateAnnouncement(ctx context.Context, input *AnnouncementInput) (*models.Announcement, error) {
	if !input.AnnouncementType.Valid() {
		return nil, domain.ErrInvalidInput
	}

	announcement := &models.Announcement{
		Title:            input.Title,
		Content:          input.Content,
		AnnouncementType: input.AnnouncementType,
		DepartmentID:     input.DepartmentID,
		IsPublished:      input.IsPublished,
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.cache.InvalidateRecentAnnouncements(ctx)
	return announcement, nil
}

// GetAnnouncement gets an announcement by ID
func (s *ContentService) GetAnnouncement(ctx context.Context, id uint) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return announcement, nil
}

// ListAnnouncements lists announcements
func (s *ContentService) ListAnnouncements(ctx context.Context, params *query.Params) ([]*models.Announcement, int64, error) {
	return s.announcementRepo.List(ctx, params)
}

// ListRecentAnnouncements lists the latest published announcements, served
// from cache when one is available
func (s *ContentService) ListRecentAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	var cached []*models.Announcement
	if s.cache.GetRecentAnnouncements(ctx, &cached) {
		return cached, nil
	}

	announcements, err := s.announcementRepo.ListRecent(ctx, recentAnnouncementsLimit)
	if err != nil {
		return nil, err
	}

	s.cache.SetRecentAnnouncements(ctx, announcements)
	return announcements, nil
}

// ListUrgentAnnouncements lists published urgent announcements
func (s *ContentService) ListUrgentAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.ListUrgent(ctx)
}
