// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Audit actions recorded by the task write paths and the subscription gate.
const (
	ActionCreateTask    = "CREATE_TASK"
	ActionUpdateTask    = "UPDATE_TASK"
	ActionDeleteTask    = "DELETE_TASK"
	ActionPremiumDenied = "PREMIUM_DENIED"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceID    string          `json:"resource_id"`
	AccessGranted bool            `json:"access_granted"`
	Feature       string          `json:"feature,omitempty"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
