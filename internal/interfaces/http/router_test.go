package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fixmysite/portal/internal/infrastructure/auth"
	"github.com/fixmysite/portal/internal/infrastructure/config"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	sharedConfig "github.com/fixmysite/portal/internal/shared/config"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newTestContainer(t *testing.T) (*Container, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	require.NoError(t, gdb.Create(&models.UserModel{Name: "Support Admin", Email: "admin@fixmy.site", Password: "x"}).Error)
	require.NoError(t, gdb.Create(&models.UserModel{Name: "Jane Client", Email: "jane@example.com", Password: "x"}).Error)

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{Mode: "test"},
		Auth: sharedConfig.AuthConfig{
			JWT:          sharedConfig.JWTConfig{Secret: testSecret, AccessExpMinutes: 60},
			AdminUserIDs: []uint{1},
		},
		Email: sharedConfig.EmailConfig{Driver: "log", FromAddress: "support@fixmy.site", FromName: "FixMy.Site"},
	}

	c, err := NewContainer(gdb, cfg, logger.NewNop())
	require.NoError(t, err)
	c.SetupRoutes()
	t.Cleanup(c.Shutdown)
	return c, gdb
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.NewJWTService(testSecret, 60).Generate(userID)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, c *Container, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestRouter_Health(t *testing.T) {
	c, _ := newTestContainer(t)

	w, _ := do(t, c, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "disabled", body.Checks["discord"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequiresAuth(t *testing.T) {
	c, _ := newTestContainer(t)

	w, _ := do(t, c, http.MethodGet, "/api/tickets/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, c, http.MethodGet, "/api/service-requests", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, c, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminGuard(t *testing.T) {
	c, _ := newTestContainer(t)

	w, env := do(t, c, http.MethodDelete, "/api/admin/tickets/wipe", tokenFor(t, 2), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Admin access required.", env.Error.Message)

	w, _ = do(t, c, http.MethodDelete, "/api/admin/tickets/wipe", tokenFor(t, 1), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ServiceRequestToTicketLifecycle(t *testing.T) {
	c, gdb := newTestContainer(t)
	client := tokenFor(t, 2)

	w, env := do(t, c, http.MethodPost, "/api/service-requests", client, map[string]any{
		"service_type":        "bug-fix",
		"problem_description": "Checkout page throws a 500",
		"urgency_level":       "high",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ServiceRequestID uint `json:"serviceRequestId"`
		TicketID         uint `json:"ticketId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.TicketID)
	ticketPath := "/api/tickets/" + strconv.FormatUint(uint64(created.TicketID), 10)

	w, env = do(t, c, http.MethodGet, ticketPath, client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details struct {
		Status      string `json:"status"`
		ServiceType string `json:"service_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Equal(t, "open", details.Status)

	// Another user cannot see it.
	w, _ = do(t, c, http.MethodGet, ticketPath, tokenFor(t, 1), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, c, http.MethodGet, ticketPath+"/messages", client, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, c, http.MethodDelete, ticketPath, client, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, c, http.MethodDelete, ticketPath, client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Ticket is already deleted.", env.Error.Message)

	w, _ = do(t, c, http.MethodDelete, ticketPath+"/hard-delete", tokenFor(t, 1), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "hard delete lives under /api/admin")

	adminPath := "/api/admin/tickets/" + strconv.FormatUint(uint64(created.TicketID), 10) + "/hard-delete"
	w, _ = do(t, c, http.MethodDelete, adminPath, tokenFor(t, 1), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, gdb.Model(&models.TicketModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
