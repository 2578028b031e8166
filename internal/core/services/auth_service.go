package services

import (
	"context"
	"errors"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/config"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/jwt"
	"ictclub-portal/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService handles registration and token issuance. It is the portal's
// only authentication surface, token validation lives in the middleware.
type AuthService struct {
	userRepo     repositories.UserRepository
	activityRepo repositories.ActivityLogRepository
	notifier     Notifier
	cfg          *config.Config
	log          *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityLogRepository,
	notifier Notifier,
	cfg *config.Config,
	log *logrus.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		cfg:          cfg,
		log:          log,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	RegNumber    string `json:"reg_number" validate:"required,max=20"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	DepartmentID *uint  `json:"department_id"`
	CourseID     *uint  `json:"course_id"`
}

// LoginInput represents login input
type LoginInput struct {
	RegNumber string `json:"reg_number" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
}

// Register creates a new member account in pending standing. Only an admin
// approval moves the account further.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput, meta RequestMeta) (*models.User, error) {
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByRegNumber(ctx, input.RegNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrRegNumberTaken
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		RegNumber:      input.RegNumber,
		Email:          input.Email,
		Password:       hashed,
		FullName:       input.FullName,
		DepartmentID:   input.DepartmentID,
		CourseID:       input.CourseID,
		Role:           domain.RoleMember,
		ApprovalStatus: domain.ApprovalPending,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrRegNumberTaken
		}
		return nil, err
	}

	entry := &models.ActivityLog{
		UserID:       user.ID,
		TargetUserID: &user.ID,
		ActivityType: models.ActivityRegister,
		Description:  "account registered",
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.log.WithError(err).Error("failed to write activity log")
	}

	if s.notifier != nil {
		s.notifier.NotifyMemberRegistered(user)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"reg_number": user.RegNumber,
	}).Info("member registered")

	return user, nil
}

// Login authenticates a member and issues an access token. Pending and
// rejected members can still log in, their standing limits what they reach.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByRegNumber(ctx, input.RegNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.RegNumber,
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	s.log.WithField("reg_number", user.RegNumber).Info("member logged in")

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
	}, nil
}

// GetMe returns the authenticated member's own record
func (s *AuthService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
