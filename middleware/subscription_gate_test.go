package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/api/config"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/middleware"
	"github.com/taskhive/taskhive/api/model"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	// Denial payloads read the upgrade URL from config, so the defaults must
	// be loaded the same way main does it.
	if err := config.InitConfig(); err != nil {
		panic(err)
	}
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

type stubProvider struct {
	info      *model.SubscriptionAccessInfo
	err       error
	mustPanic bool
	calls     int
}

func (s *stubProvider) CheckAccess(ctx context.Context, userID string) (*model.SubscriptionAccessInfo, error) {
	s.calls++
	if s.mustPanic {
		panic("subscription store exploded")
	}
	return s.info, s.err
}

type gateFixture struct {
	router   *gin.Engine
	executed *int
}

// newGateFixture registers GET and POST handlers behind the gate, with the
// given identity placed into the context beforehand.
func newGateFixture(userID string, provider *stubProvider, cfg middleware.GateConfig) gateFixture {
	executed := 0
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})

	gate := middleware.SubscriptionGate(provider, nil, cfg)
	handler := func(c *gin.Context) {
		executed++
		c.JSON(http.StatusOK, gin.H{"id": "42", "title": "Write release notes"})
	}
	router.GET("/tasks/42", gate, handler)
	router.POST("/tasks", gate, handler)
	router.GET("/raw", gate, func(c *gin.Context) {
		executed++
		c.JSON(http.StatusOK, []string{"not", "a", "map"})
	})

	return gateFixture{router: router, executed: &executed}
}

func (f gateFixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func activeAccess() *model.SubscriptionAccessInfo {
	return &model.SubscriptionAccessInfo{
		UserID:    "user-7",
		Status:    model.SubscriptionActive,
		PlanType:  "MONTHLY",
		HasAccess: true,
	}
}

func TestGate_ActiveSubscriberProceedsUnmodified(t *testing.T) {
	provider := &stubProvider{info: activeAccess()}
	f := newGateFixture("user-7", provider, middleware.GateConfig{Feature: "task_management"})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *f.executed)
	assert.NotContains(t, w.Body.String(), "subscription_warning")
}

func TestGate_DeniesWriteWithoutAccess(t *testing.T) {
	provider := &stubProvider{info: &model.SubscriptionAccessInfo{
		UserID:   "user-7",
		Status:   model.SubscriptionExpired,
		PlanType: "MONTHLY",
	}}
	f := newGateFixture("user-7", provider, middleware.GateConfig{Feature: "task_management"})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, 0, *f.executed, "gated write must not execute")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["requires_upgrade"])
	assert.Equal(t, "EXPIRED", body["subscription_status"])
	assert.Equal(t, "task_management", body["feature"])
	assert.Contains(t, body["error"], "expired")
	assert.Equal(t, config.GetString("subscription.upgradeURL"), body["upgrade_url"])
	assert.NotEmpty(t, body["upgrade_url"])
	assert.Len(t, body["available_plans"], 3)
}

func TestGate_ReadOnlyDegradationAttachesWarning(t *testing.T) {
	provider := &stubProvider{info: &model.SubscriptionAccessInfo{
		UserID:        "user-7",
		Status:        model.SubscriptionTrial,
		PlanType:      "TRIAL",
		DaysRemaining: 2,
	}}
	f := newGateFixture("user-7", provider, middleware.GateConfig{
		Feature:       "task_management",
		AllowReadOnly: true,
	})

	w := f.do(http.MethodGet, "/tasks/42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *f.executed, "read-only request must still execute")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "42", body["id"], "original payload preserved")

	warning, ok := body["subscription_warning"].(map[string]interface{})
	require.True(t, ok, "warning must be attached to keyed-map bodies")
	assert.Equal(t, "TRIAL", warning["subscription_status"])
	assert.Equal(t, "TRIAL", warning["plan_type"])
	assert.Equal(t, "task_management", warning["feature"])
	assert.Equal(t, true, warning["show_upgrade_banner"])
	assert.Contains(t, warning["message"], "2")
}

func TestGate_ReadOnlyDegradationLeavesNonMapBodiesAlone(t *testing.T) {
	provider := &stubProvider{info: &model.SubscriptionAccessInfo{
		UserID: "user-7",
		Status: model.SubscriptionExpired,
	}}
	f := newGateFixture("user-7", provider, middleware.GateConfig{
		Feature:       "task_management",
		AllowReadOnly: true,
	})

	w := f.do(http.MethodGet, "/raw")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *f.executed)
	assert.JSONEq(t, `["not","a","map"]`, w.Body.String())
}

func TestGate_WriteStillDeniedWhenReadOnlyAllowed(t *testing.T) {
	provider := &stubProvider{info: &model.SubscriptionAccessInfo{
		UserID: "user-7",
		Status: model.SubscriptionTrial,
	}}
	f := newGateFixture("user-7", provider, middleware.GateConfig{
		Feature:       "task_management",
		AllowReadOnly: true,
	})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, 0, *f.executed)
}

func TestGate_TrialDenialMentionsRemainingDays(t *testing.T) {
	provider := &stubProvider{info: &model.SubscriptionAccessInfo{
		UserID:        "user-7",
		Status:        model.SubscriptionTrial,
		PlanType:      "TRIAL",
		DaysRemaining: 5,
	}}
	f := newGateFixture("user-7", provider, middleware.GateConfig{Feature: "reports"})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "5 days left")
}

func TestGate_CustomMessageOverridesDefault(t *testing.T) {
	provider := &stubProvider{info: &model.SubscriptionAccessInfo{
		UserID: "user-7",
		Status: model.SubscriptionExpired,
	}}
	f := newGateFixture("user-7", provider, middleware.GateConfig{
		Feature: "reports",
		Message: "Reports need a premium plan.",
	})

	w := f.do(http.MethodPost, "/tasks")

	assert.Contains(t, w.Body.String(), "Reports need a premium plan.")
}

func TestGate_UnresolvedIdentityProceeds(t *testing.T) {
	provider := &stubProvider{info: activeAccess()}
	f := newGateFixture("", provider, middleware.GateConfig{Feature: "task_management"})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *f.executed)
	assert.Equal(t, 0, provider.calls, "no lookup without an identity")
}

func TestGate_LookupFailureFailsOpen(t *testing.T) {
	provider := &stubProvider{err: errors.New("subscription store unavailable")}
	f := newGateFixture("user-7", provider, middleware.GateConfig{Feature: "task_management"})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *f.executed, "fail-open: handler executes exactly once")
	assert.NotContains(t, w.Body.String(), "subscription_warning")
}

func TestGate_LookupPanicFailsOpen(t *testing.T) {
	provider := &stubProvider{mustPanic: true}
	f := newGateFixture("user-7", provider, middleware.GateConfig{Feature: "task_management"})

	w := f.do(http.MethodPost, "/tasks")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *f.executed)
}
