// api/controller/subscription_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	taskhive_errors "github.com/taskhive/taskhive/api/errors"
	"github.com/taskhive/taskhive/api/model"
	"github.com/taskhive/taskhive/api/subscription"
	"github.com/taskhive/taskhive/api/util"
)

type SubscriptionController struct {
	provider subscription.Provider
}

func NewSubscriptionController(provider subscription.Provider) *SubscriptionController {
	return &SubscriptionController{
		provider: provider,
	}
}

func (sc *SubscriptionController) RegisterRoutes(r *gin.RouterGroup) {
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("/status", sc.GetStatus)
		subscriptions.GET("/plans", sc.GetPlans)
	}
}

// GetStatus reports the requesting user's current subscription access.
// Computed fresh on every call, never cached.
func (sc *SubscriptionController) GetStatus(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", taskhive_errors.ErrUnauthorized)
		return
	}

	info, err := sc.provider.CheckAccess(c, userID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to check subscription", err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetPlans lists the purchasable plans.
func (sc *SubscriptionController) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": model.AvailablePlans()})
}
