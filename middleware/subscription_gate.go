// api/middleware/subscription_gate.go

package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/api/audit"
	"github.com/taskhive/taskhive/api/config"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/model"
	"github.com/taskhive/taskhive/api/subscription"
	"github.com/taskhive/taskhive/api/util"
)

// GateConfig parameterizes one gated route.
type GateConfig struct {
	// Feature names the gated capability in warnings, denials and audit logs.
	Feature string
	// Message, when set, overrides the status-specific denial wording.
	Message string
	// AllowReadOnly lets GET/HEAD requests through with a warning attached
	// instead of denying them.
	AllowReadOnly bool
}

type subscriptionWarning struct {
	Message            string `json:"message"`
	SubscriptionStatus string `json:"subscription_status"`
	PlanType           string `json:"plan_type"`
	ShowUpgradeBanner  bool   `json:"show_upgrade_banner"`
	Feature            string `json:"feature"`
}

// SubscriptionGate intercepts calls to premium operations. Per request it
// resolves the caller's subscription and either proceeds, proceeds with a
// warning attached to the response body, or short-circuits with an
// upgrade-required payload. The policy is fail-open: any failure while
// resolving identity or subscription state allows the request through, so
// an enforcement outage never becomes a user-facing outage.
func SubscriptionGate(provider subscription.Provider, auditService audit.Service, cfg GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := resolveAccess(c, provider)
		if access == nil || access.HasAccess {
			c.Next()
			return
		}

		if cfg.AllowReadOnly && isReadOnly(c.Request.Method) {
			proceedWithWarning(c, access, cfg)
			return
		}

		deny(c, access, auditService, cfg)
	}
}

// resolveAccess returns nil whenever the request should pass ungated:
// unresolved identity, lookup error, or a panic inside the provider. The
// recover here is deliberate policy, not defensive clutter; see the
// fail-open note on SubscriptionGate.
func resolveAccess(c *gin.Context, provider subscription.Provider) (access *model.SubscriptionAccessInfo) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Subscription resolution panicked, allowing request",
				zap.Any("panic", r),
				zap.String("path", c.Request.URL.Path))
			access = nil
		}
	}()

	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		// Authentication is enforced elsewhere; nothing to gate on.
		return nil
	}

	access, err = provider.CheckAccess(c, userID)
	if err != nil {
		logger.Warn("Subscription lookup failed, allowing request",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("path", c.Request.URL.Path))
		return nil
	}
	return access
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// proceedWithWarning executes the handler against a buffering writer, then
// attaches the warning to the response if the body is a JSON object. Any
// other body shape passes through unchanged.
func proceedWithWarning(c *gin.Context, access *model.SubscriptionAccessInfo, cfg GateConfig) {
	buffered := &bufferingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
	c.Writer = buffered

	c.Next()

	warning := subscriptionWarning{
		Message:            denialMessage(access, cfg.Message),
		SubscriptionStatus: access.Status,
		PlanType:           access.PlanType,
		ShowUpgradeBanner:  true,
		Feature:            cfg.Feature,
	}

	data := buffered.body.Bytes()
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err == nil && payload != nil {
		payload["subscription_warning"] = warning
		if modified, err := json.Marshal(payload); err == nil {
			data = modified
		}
	}

	if _, err := buffered.ResponseWriter.Write(data); err != nil {
		logger.Error("Failed to write degraded-access response", zap.Error(err))
	}
}

func deny(c *gin.Context, access *model.SubscriptionAccessInfo, auditService audit.Service, cfg GateConfig) {
	message := denialMessage(access, cfg.Message)

	logger.Info("Premium access denied",
		zap.String("userID", access.UserID),
		zap.String("feature", cfg.Feature),
		zap.String("status", access.Status))

	if auditService != nil {
		auditLog := audit.AuditLog{
			Timestamp:     time.Now(),
			UserID:        access.UserID,
			Action:        audit.ActionPremiumDenied,
			ResourceID:    c.Request.URL.Path,
			AccessGranted: false,
			Feature:       cfg.Feature,
		}
		if err := auditService.LogAccess(c, auditLog); err != nil {
			logger.Error("Failed to create audit log", zap.Error(err))
		}
	}

	c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
		"success":             false,
		"error":               message,
		"requires_upgrade":    true,
		"subscription_status": access.Status,
		"plan_type":           access.PlanType,
		"days_remaining":      access.DaysRemaining,
		"feature":             cfg.Feature,
		"upgrade_url":         config.GetString("subscription.upgradeURL"),
		"available_plans":     model.AvailablePlans(),
	})
}

// denialMessage picks wording by current status; a caller-supplied message
// always wins.
func denialMessage(access *model.SubscriptionAccessInfo, custom string) string {
	if custom != "" {
		return custom
	}
	switch {
	case access.Status == model.SubscriptionTrial && access.DaysRemaining > 0:
		return fmt.Sprintf("You have %d days left in your trial. Upgrade to keep full access after it ends.", access.DaysRemaining)
	case access.Status == model.SubscriptionTrial:
		return "Your free trial has expired. Upgrade to continue using premium features."
	case access.Status == model.SubscriptionExpired:
		return "Your subscription has expired. Renew to continue using premium features."
	default:
		return "This feature requires an active premium subscription."
	}
}

// bufferingWriter captures the handler's body so the gate can rewrite it.
// Status and headers pass straight through.
type bufferingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferingWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}
