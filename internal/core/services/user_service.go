package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/query"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// approvalRetries bounds the reload-and-resolve loop when a conditional
// update loses a race. Two admins acting at once resolve in one retry.
const approvalRetries = 3

// RequestMeta carries request attribution for the audit trail
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// UserService handles membership business logic, including the approval
// state machine
type UserService struct {
	userRepo     repositories.UserRepository
	activityRepo repositories.ActivityLogRepository
	cache        *Cache
	notifier     Notifier
	log          *logrus.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityLogRepository,
	cache *Cache,
	notifier Notifier,
	log *logrus.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		cache:        cache,
		notifier:     notifier,
		log:          log,
	}
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists users with the query parameters
func (s *UserService) List(ctx context.Context, params *query.Params) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, params)
}

// ListByDepartment lists one department's members
func (s *UserService) ListByDepartment(ctx context.Context, departmentID uint, params *query.Params) ([]*models.User, int64, error) {
	return s.userRepo.ListByDepartment(ctx, departmentID, params)
}

// Approve moves a user to approved. Replaying an approval is a no-op
// success; approving a rejected user is an override and is logged as one.
func (s *UserService) Approve(ctx context.Context, targetID, adminID uint, meta RequestMeta) (*models.User, error) {
	return s.transition(ctx, targetID, adminID, domain.ApprovalApproved, meta)
}

// Reject moves a user to rejected. Replaying a rejection is a no-op success;
// rejecting an approved user is an override and is logged as one.
func (s *UserService) Reject(ctx context.Context, targetID, adminID uint, meta RequestMeta) (*models.User, error) {
	return s.transition(ctx, targetID, adminID, domain.ApprovalRejected, meta)
}

func (s *UserService) transition(ctx context.Context, targetID, adminID uint, to domain.ApprovalStatus, meta RequestMeta) (*models.User, error) {
	for attempt := 0; attempt < approvalRetries; attempt++ {
		user, err := s.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}

		from := user.ApprovalStatus
		if from == to {
			// Replay: the stored decision stands, nothing is emitted.
			return user, nil
		}

		override := from != domain.ApprovalPending

		ok, err := s.userRepo.UpdateApprovalStatusIf(ctx, targetID, from, to, adminID, time.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost a race, reload and resolve against the new status.
			continue
		}

		user, err = s.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}

		s.recordTransition(ctx, user, adminID, from, to, override, meta)

		if user.DepartmentID != nil {
			s.cache.InvalidateDepartmentCount(ctx, *user.DepartmentID)
		}

		if s.notifier != nil {
			if to == domain.ApprovalApproved {
				s.notifier.NotifyMemberApproved(user, adminID)
			} else {
				s.notifier.NotifyMemberRejected(user, adminID)
			}
		}

		return user, nil
	}

	return nil, domain.ErrConflict
}

func (s *UserService) recordTransition(ctx context.Context, user *models.User, adminID uint, from, to domain.ApprovalStatus, override bool, meta RequestMeta) {
	activityType := models.ActivityApprove
	if to == domain.ApprovalRejected {
		activityType = models.ActivityReject
	}
	if override {
		if to == domain.ApprovalApproved {
			activityType = models.ActivityApproveOverride
		} else {
			activityType = models.ActivityRejectOverride
		}
	}

	entry := &models.ActivityLog{
		UserID:       adminID,
		TargetUserID: &user.ID,
		ActivityType: activityType,
		Description:  fmt.Sprintf("approval status changed from %s to %s", from, to),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.log.WithError(err).WithField("target_id", user.ID).Error("failed to write activity log")
	}
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	FullName     string `json:"full_name" validate:"omitempty,min=2,max=100"`
	DepartmentID *uint  `json:"department_id"`
	CourseID     *uint  `json:"course_id"`
}

// UpdateProfile applies a member's self edits
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput, meta RequestMeta) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.DepartmentID != nil {
		user.DepartmentID = input.DepartmentID
	}
	if input.CourseID != nil {
		user.CourseID = input.CourseID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	entry := &models.ActivityLog{
		UserID:       userID,
		TargetUserID: &user.ID,
		ActivityType: models.ActivityProfileUpdate,
		Description:  "profile updated",
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.log.WithError(err).Error("failed to write activity log")
	}

	return user, nil
}

// RecordPictureUpload stamps the member's profile picture upload. The file
// itself lives in external storage, the portal tracks the deadline only.
func (s *UserService) RecordPictureUpload(ctx context.Context, userID uint, meta RequestMeta) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.SetPictureUploaded(ctx, userID, now); err != nil {
		return nil, err
	}
	user.PictureUploadedAt = &now

	entry := &models.ActivityLog{
		UserID:       userID,
		TargetUserID: &user.ID,
		ActivityType: models.ActivityPictureUpload,
		Description:  "profile picture uploaded",
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.log.WithError(err).Error("failed to write activity log")
	}

	return user, nil
}

// GetActivity lists the audit trail for a user
func (s *UserService) GetActivity(ctx context.Context, targetID uint, params *query.Params) ([]*models.ActivityLog, int64, error) {
	if _, err := s.GetByID(ctx, targetID); err != nil {
		return nil, 0, err
	}
	return s.activityRepo.ListByTarget(ctx, targetID, params)
}
