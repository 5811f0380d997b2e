package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/handler/dashboard"
	websess "github.com/Kinetic639/coreframe-boilerplate-sub007/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{Views: noOpViews{}})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Organization{},
		&models.OrganizationMember{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// testStorage is a minimal in-memory implementation of fiber.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	// Initialize a fresh in-memory session store for each test.
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func newLoginService(t *testing.T, db *gorm.DB, cfg *config.Config, app *fiber.App) *Service {
	t.Helper()

	initSessionStore()

	var s Service
	if err := s.Init(&handler.Deps{App: app, Cfg: cfg, DB: db}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	return &s
}

// createUser inserts an active user with the given password and an active
// membership in a fresh organization. Returns the user and its organization.
func createUser(t *testing.T, db *gorm.DB, email, password string) (*models.User, *models.Organization) {
	t.Helper()

	org := &models.Organization{Name: "Org for " + email, Slug: "org-" + email}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}

	user := &models.User{
		Active:   true,
		Email:    email,
		Password: models.HashPassword(password),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Status:         models.MemberStatusActive,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	return user, org
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	return string(bodyBytes)
}

func TestPost_Success_SetsCookieAndRedirects(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp()
	newLoginService(t, db, cfg, app)

	createUser(t, db, "bob@example.com", "s3cr3t")

	form := url.Values{
		"email":    {"bob@example.com"},
		"password": {"s3cr3t"},
	}
	resp := performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != dashboard.Path {
		t.Fatalf("expected redirect to %s, got %s", dashboard.Path, loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}
}

func TestPost_DevModeDisablesSecure(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = true

	app := newTestApp()
	newLoginService(t, db, cfg, app)

	createUser(t, db, "carol@example.com", "pass")

	form := url.Values{
		"email":    {"carol@example.com"},
		"password": {"pass"},
	}
	resp := performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPost_WrongPassword_RendersError(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	newLoginService(t, db, newTestConfig(), app)

	createUser(t, db, "dave@example.com", "right")

	form := url.Values{
		"email":    {"dave@example.com"},
		"password": {"wrong"},
	}
	resp := performPost(t, app, Path+"/", form)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	if body := bodyOf(t, resp); !strings.Contains(body, ErrInvalidCredentials.Error()) {
		t.Fatalf("expected invalid credentials error, got %q", body)
	}
}

func TestPost_InactiveUser_RendersError(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	newLoginService(t, db, newTestConfig(), app)

	user, _ := createUser(t, db, "eve@example.com", "pass")
	if err := db.Model(user).Update("active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	form := url.Values{
		"email":    {"eve@example.com"},
		"password": {"pass"},
	}
	resp := performPost(t, app, Path+"/", form)

	if body := bodyOf(t, resp); !strings.Contains(body, ErrUserInactive.Error()) {
		t.Fatalf("expected inactive error, got %q", body)
	}
}

func TestPost_NoMembership_RendersError(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	newLoginService(t, db, newTestConfig(), app)

	user := &models.User{
		Active:   true,
		Email:    "orphan@example.com",
		Password: models.HashPassword("pass"),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"email":    {"orphan@example.com"},
		"password": {"pass"},
	}
	resp := performPost(t, app, Path+"/", form)

	if body := bodyOf(t, resp); !strings.Contains(body, ErrNoOrganization.Error()) {
		t.Fatalf("expected no organization error, got %q", body)
	}
}

func TestPost_TOTP(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"

	db := newTestDB(t)
	app := newTestApp()
	newLoginService(t, db, newTestConfig(), app)

	user, _ := createUser(t, db, "frank@example.com", "pass")

	updates := map[string]any{"totp_secret": secret, "totp_confirmed": true}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		t.Fatalf("failed to enable totp: %v", err)
	}

	// missing code
	form := url.Values{
		"email":    {"frank@example.com"},
		"password": {"pass"},
	}
	resp := performPost(t, app, Path+"/", form)

	if body := bodyOf(t, resp); !strings.Contains(body, ErrTOTPRequired.Error()) {
		t.Fatalf("expected code required error, got %q", body)
	}

	// wrong code
	form.Set("totp_code", "000000")
	resp = performPost(t, app, Path+"/", form)

	if body := bodyOf(t, resp); !strings.Contains(body, ErrTOTPInvalid.Error()) {
		t.Fatalf("expected invalid code error, got %q", body)
	}

	// valid code
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}

	form.Set("totp_code", code)
	resp = performPost(t, app, Path+"/", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found with valid code, got %d", resp.StatusCode)
	}
}

func TestResolveActiveContext_DefaultOrgWins(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	s := newLoginService(t, db, newTestConfig(), app)

	user, _ := createUser(t, db, "grace@example.com", "pass")

	// second membership, made the default
	org2 := &models.Organization{Name: "Second", Slug: "second"}
	if err := db.Create(org2).Error; err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: org2.ID,
		UserID:         user.ID,
		Status:         models.MemberStatusActive,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	if err := db.Model(user).Update("default_organization_id", org2.ID).Error; err != nil {
		t.Fatalf("failed to set default organization: %v", err)
	}

	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}

	orgID, _, err := s.resolveActiveContext(&fresh)
	if err != nil {
		t.Fatalf("resolveActiveContext() error = %v", err)
	}

	if orgID != org2.ID {
		t.Fatalf("expected default organization %d, got %d", org2.ID, orgID)
	}
}

func TestResolveActiveContext_SuspendedMembershipIgnored(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	s := newLoginService(t, db, newTestConfig(), app)

	user, org := createUser(t, db, "henry@example.com", "pass")

	err := db.Model(&models.OrganizationMember{}).
		Where("user_id = ? AND organization_id = ?", user.ID, org.ID).
		Update("status", models.MemberStatusSuspended).Error
	if err != nil {
		t.Fatalf("failed to suspend membership: %v", err)
	}

	if _, _, err := s.resolveActiveContext(user); err == nil {
		t.Fatal("expected error for suspended membership, got nil")
	} else if err != ErrNoOrganization {
		t.Fatalf("expected %v, got %v", ErrNoOrganization, err)
	}
}
