// api/subscription/subscription.go

package subscription

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/api/model"
)

// Provider resolves a user's current subscription access. Implementations
// must compute the answer fresh from persisted state on every call; access
// decisions are deliberately never cached so a lapsed subscription is
// noticed on the next request.
type Provider interface {
	CheckAccess(ctx context.Context, userID string) (*model.SubscriptionAccessInfo, error)
}

// AccessInfoFor derives the point-in-time access view from a persisted
// subscription. A nil subscription means the user has no subscription
// record at all.
func AccessInfoFor(userID string, sub *model.Subscription, now time.Time) *model.SubscriptionAccessInfo {
	if sub == nil {
		return &model.SubscriptionAccessInfo{
			UserID:   userID,
			Status:   "NONE",
			PlanType: "NONE",
		}
	}

	info := &model.SubscriptionAccessInfo{
		UserID:   userID,
		Status:   sub.Status,
		PlanType: sub.PlanType,
	}

	switch sub.Status {
	case model.SubscriptionTrial:
		info.DaysRemaining = daysUntil(sub.TrialEndDate, now)
		info.HasAccess = info.DaysRemaining > 0
	case model.SubscriptionActive:
		info.DaysRemaining = daysUntil(sub.CurrentPeriodEnd, now)
		if sub.CurrentPeriodEnd != nil && !now.Before(*sub.CurrentPeriodEnd) {
			// Persisted status lags the clock; report what the user will see.
			info.Status = model.SubscriptionExpired
			info.HasAccess = false
		} else {
			info.HasAccess = true
		}
	default:
		info.HasAccess = false
	}

	return info
}

// daysUntil counts whole or partial days between now and the deadline,
// never negative. A missing deadline counts as zero.
func daysUntil(deadline *time.Time, now time.Time) int {
	if deadline == nil {
		return 0
	}
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}
