package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/config"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/jwt"
	"ictclub-portal/internal/pkg/query"
	"ictclub-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// fakeRoleStore implements the subset of UserRepository the guard exercises
type fakeRoleStore struct {
	mu    sync.Mutex
	roles map[uint]domain.Role
}

func (s *fakeRoleStore) setRole(id uint, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[id] = role
}

func (s *fakeRoleStore) GetRole(ctx context.Context, id uint) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return role, nil
}

func (s *fakeRoleStore) Create(ctx context.Context, user *models.User) error { return nil }
func (s *fakeRoleStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *fakeRoleStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *fakeRoleStore) GetByRegNumber(ctx context.Context, regNumber string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *fakeRoleStore) Update(ctx context.Context, user *models.User) error { return nil }
func (s *fakeRoleStore) List(ctx context.Context, params *query.Params) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (s *fakeRoleStore) ListByDepartment(ctx context.Context, departmentID uint, params *query.Params) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (s *fakeRoleStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (s *fakeRoleStore) ExistsByRegNumber(ctx context.Context, regNumber string) (bool, error) {
	return false, nil
}
func (s *fakeRoleStore) UpdateApprovalStatusIf(ctx context.Context, id uint, from, to domain.ApprovalStatus, actorID uint, at time.Time) (bool, error) {
	return false, nil
}
func (s *fakeRoleStore) SetPictureUploaded(ctx context.Context, id uint, at time.Time) error {
	return nil
}
func (s *fakeRoleStore) ListPictureOverdue(ctx context.Context, deadline time.Time) ([]*models.User, error) {
	return nil, nil
}
func (s *fakeRoleStore) CountApprovedByDepartment(ctx context.Context, departmentID uint) (int64, error) {
	return 0, nil
}

func testApp(store *fakeRoleStore) *fiber.App {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, AccessTokenMins: 60}}

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(store), func(c *fiber.Ctx) error {
		return response.Success(c, "ok", nil)
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, token string) (int, response.Response) {
	t.Helper()

	req := httptest.NewRequest("GET", "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body response.Response
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func adminToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, "ADMIN001", string(domain.RoleAdmin), testSecret, 60)
	require.NoError(t, err)
	return token
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	store := &fakeRoleStore{roles: map[uint]domain.Role{1: domain.RoleAdmin}}
	app := testApp(store)

	status, body := doGet(t, app, adminToken(t, 1))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body.Status)
}

func TestAdminOnlyRejectsMember(t *testing.T) {
	store := &fakeRoleStore{roles: map[uint]domain.Role{2: domain.RoleMember}}
	app := testApp(store)

	token, err := jwt.GenerateAccessToken(2, "T/DEG/2023/001", string(domain.RoleMember), testSecret, 60)
	require.NoError(t, err)

	status, body := doGet(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Forbidden", body.Error)
}

func TestAdminOnlyRejectsMissingToken(t *testing.T) {
	store := &fakeRoleStore{roles: map[uint]domain.Role{}}
	app := testApp(store)

	status, body := doGet(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "error", body.Status)
}

func TestAdminOnlyRejectsBadToken(t *testing.T) {
	store := &fakeRoleStore{roles: map[uint]domain.Role{}}
	app := testApp(store)

	status, _ := doGet(t, app, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestDemotedAdminLosesAccessImmediately(t *testing.T) {
	store := &fakeRoleStore{roles: map[uint]domain.Role{1: domain.RoleAdmin}}
	app := testApp(store)

	// The token still claims admin, but the store is consulted per call.
	token := adminToken(t, 1)

	status, _ := doGet(t, app, token)
	require.Equal(t, fiber.StatusOK, status)

	store.setRole(1, domain.RoleMember)

	status, body := doGet(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden", body.Error)
}
