package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskhive/api/model"
	"github.com/taskhive/taskhive/api/subscription"
)

func TestAccessInfoFor(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	in := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	tests := []struct {
		name          string
		sub           *model.Subscription
		wantStatus    string
		wantAccess    bool
		wantDaysRange [2]int
	}{
		{
			name:       "no subscription record",
			sub:        nil,
			wantStatus: "NONE",
			wantAccess: false,
		},
		{
			name: "trial with time remaining",
			sub: &model.Subscription{
				Status:       model.SubscriptionTrial,
				PlanType:     "TRIAL",
				TrialEndDate: in(36 * time.Hour),
			},
			wantStatus:    model.SubscriptionTrial,
			wantAccess:    true,
			wantDaysRange: [2]int{2, 2}, // partial days round up
		},
		{
			name: "trial expired",
			sub: &model.Subscription{
				Status:       model.SubscriptionTrial,
				PlanType:     "TRIAL",
				TrialEndDate: in(-2 * time.Hour),
			},
			wantStatus: model.SubscriptionTrial,
			wantAccess: false,
		},
		{
			name: "active within period",
			sub: &model.Subscription{
				Status:           model.SubscriptionActive,
				PlanType:         "MONTHLY",
				CurrentPeriodEnd: in(10 * 24 * time.Hour),
			},
			wantStatus:    model.SubscriptionActive,
			wantAccess:    true,
			wantDaysRange: [2]int{10, 10},
		},
		{
			name: "active but period lapsed",
			sub: &model.Subscription{
				Status:           model.SubscriptionActive,
				PlanType:         "MONTHLY",
				CurrentPeriodEnd: in(-time.Hour),
			},
			wantStatus: model.SubscriptionExpired,
			wantAccess: false,
		},
		{
			name: "expired",
			sub: &model.Subscription{
				Status:   model.SubscriptionExpired,
				PlanType: "YEARLY",
			},
			wantStatus: model.SubscriptionExpired,
			wantAccess: false,
		},
		{
			name: "cancelled",
			sub: &model.Subscription{
				Status:   model.SubscriptionCancelled,
				PlanType: "MONTHLY",
			},
			wantStatus: model.SubscriptionCancelled,
			wantAccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := subscription.AccessInfoFor("user-1", tt.sub, now)
			assert.Equal(t, "user-1", info.UserID)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantAccess, info.HasAccess)
			if tt.wantDaysRange != [2]int{} {
				assert.GreaterOrEqual(t, info.DaysRemaining, tt.wantDaysRange[0])
				assert.LessOrEqual(t, info.DaysRemaining, tt.wantDaysRange[1])
			}
		})
	}
}

func TestAvailablePlans(t *testing.T) {
	plans := model.AvailablePlans()
	assert.Len(t, plans, 3)

	byType := map[string]model.SubscriptionPlan{}
	for _, p := range plans {
		byType[p.Type] = p
	}
	assert.Equal(t, 30, byType["MONTHLY"].DurationDays)
	assert.Equal(t, 90, byType["QUARTERLY"].DurationDays)
	assert.Equal(t, 365, byType["YEARLY"].DurationDays)
}
