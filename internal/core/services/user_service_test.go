package services

import (
	"context"
	"sync"
	"testing"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceForTest() (*UserService, *fakeUserRepo, *fakeActivityRepo, *fakeNotifier) {
	userRepo := newFakeUserRepo()
	activityRepo := newFakeActivityRepo()
	notifier := &fakeNotifier{}
	log := logrus.New()
	svc := NewUserService(userRepo, activityRepo, NewCache(nil, log), notifier, log)
	return svc, userRepo, activityRepo, notifier
}

func pendingMember(repo *fakeUserRepo) *models.User {
	return repo.add(&models.User{
		RegNumber:      "T/DEG/2023/001",
		Email:          "member@mwecau.ac.tz",
		FullName:       "Test Member",
		Role:           domain.RoleMember,
		ApprovalStatus: domain.ApprovalPending,
	})
}

func TestApprovePendingMember(t *testing.T) {
	svc, repo, activity, notifier := newUserServiceForTest()
	member := pendingMember(repo)

	user, err := svc.Approve(context.Background(), member.ID, 99, RequestMeta{IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalApproved, user.ApprovalStatus)
	require.NotNil(t, user.ApprovedBy)
	assert.Equal(t, uint(99), *user.ApprovedBy)
	assert.NotNil(t, user.ApprovedAt)

	_, approved, _, _ := notifier.counts()
	assert.Equal(t, 1, approved)
	assert.Len(t, activity.byType(models.ActivityApprove), 1)
}

func TestApproveReplayIsNoOp(t *testing.T) {
	svc, repo, activity, notifier := newUserServiceForTest()
	member := pendingMember(repo)

	first, err := svc.Approve(context.Background(), member.ID, 99, RequestMeta{})
	require.NoError(t, err)

	// Second approval by a different admin succeeds without effect.
	second, err := svc.Approve(context.Background(), member.ID, 100, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalApproved, second.ApprovalStatus)
	assert.Equal(t, *first.ApprovedBy, *second.ApprovedBy)
	assert.Equal(t, first.ApprovedAt.Unix(), second.ApprovedAt.Unix())

	_, approved, _, _ := notifier.counts()
	assert.Equal(t, 1, approved, "replay must not emit a second event")
	assert.Len(t, activity.byType(models.ActivityApprove), 1)
}

func TestApproveRejectedMemberIsOverride(t *testing.T) {
	svc, repo, activity, _ := newUserServiceForTest()
	member := pendingMember(repo)

	_, err := svc.Reject(context.Background(), member.ID, 99, RequestMeta{})
	require.NoError(t, err)

	user, err := svc.Approve(context.Background(), member.ID, 100, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalApproved, user.ApprovalStatus)
	assert.Len(t, activity.byType(models.ActivityApproveOverride), 1)
	assert.Len(t, activity.byType(models.ActivityReject), 1)
}

func TestRejectApprovedMemberIsOverride(t *testing.T) {
	svc, repo, activity, notifier := newUserServiceForTest()
	member := pendingMember(repo)

	_, err := svc.Approve(context.Background(), member.ID, 99, RequestMeta{})
	require.NoError(t, err)

	user, err := svc.Reject(context.Background(), member.ID, 100, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalRejected, user.ApprovalStatus)
	assert.Len(t, activity.byType(models.ActivityRejectOverride), 1)

	_, approved, rejected, _ := notifier.counts()
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, rejected)
}

func TestApproveUnknownUser(t *testing.T) {
	svc, _, _, _ := newUserServiceForTest()

	_, err := svc.Approve(context.Background(), 12345, 99, RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConcurrentApprovalsEmitOneEvent(t *testing.T) {
	svc, repo, activity, notifier := newUserServiceForTest()
	member := pendingMember(repo)

	const admins = 8
	var wg sync.WaitGroup
	errs := make([]error, admins)

	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(context.Background(), member.ID, uint(100+i), RequestMeta{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	user, err := svc.GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, user.ApprovalStatus)

	_, approved, _, _ := notifier.counts()
	assert.Equal(t, 1, approved, "exactly one transition event")
	assert.Len(t, activity.byType(models.ActivityApprove), 1)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo, activity, _ := newUserServiceForTest()
	member := pendingMember(repo)

	dept := uint(3)
	user, err := svc.UpdateProfile(context.Background(), member.ID, &UpdateProfileInput{
		FullName:     "Renamed Member",
		DepartmentID: &dept,
	}, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "Renamed Member", user.FullName)
	require.NotNil(t, user.DepartmentID)
	assert.Equal(t, uint(3), *user.DepartmentID)
	assert.Len(t, activity.byType(models.ActivityProfileUpdate), 1)
}

func TestRecordPictureUpload(t *testing.T) {
	svc, repo, activity, _ := newUserServiceForTest()
	member := pendingMember(repo)

	user, err := svc.RecordPictureUpload(context.Background(), member.ID, RequestMeta{})
	require.NoError(t, err)

	assert.NotNil(t, user.PictureUploadedAt)
	assert.Len(t, activity.byType(models.ActivityPictureUpload), 1)
}

func TestGetActivityUnknownUser(t *testing.T) {
	svc, _, _, _ := newUserServiceForTest()

	_, _, err := svc.GetActivity(context.Background(), 777, nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
