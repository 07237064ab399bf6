package model

import "time"

// Subscription statuses as persisted on the subscription node.
const (
	SubscriptionTrial     = "TRIAL"
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
)

type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"`
	PlanType         string     `json:"plan_type"` // "TRIAL", "MONTHLY", "QUARTERLY", "YEARLY"
	TrialEndDate     *time.Time `json:"trial_end_date,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SubscriptionAccessInfo is a point-in-time view of a user's subscription,
// recomputed from persisted state on every gated request. It is deliberately
// never cached so a lapsed subscription is noticed on the next call.
type SubscriptionAccessInfo struct {
	UserID        string `json:"user_id"`
	Status        string `json:"subscription_status"`
	PlanType      string `json:"plan_type"`
	DaysRemaining int    `json:"days_remaining"`
	HasAccess     bool   `json:"has_access"`
}

// SubscriptionPlan is one entry of the static upgrade catalog.
type SubscriptionPlan struct {
	Type         string  `json:"type"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	DurationDays int     `json:"duration_days"`
}

// AvailablePlans returns the static plan catalog advertised in upgrade
// responses.
func AvailablePlans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{Type: "MONTHLY", Price: 9.99, Currency: "USD", DurationDays: 30},
		{Type: "QUARTERLY", Price: 26.99, Currency: "USD", DurationDays: 90},
		{Type: "YEARLY", Price: 95.99, Currency: "USD", DurationDays: 365},
	}
}
