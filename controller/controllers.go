// api/controller/controllers.go
package controller

import (
	"github.com/taskhive/taskhive/api/cache"
	"github.com/taskhive/taskhive/api/metrics"
	"github.com/taskhive/taskhive/api/service"
	"github.com/taskhive/taskhive/api/subscription"
)

// Controllers bundles the HTTP layer for route registration.
type Controllers struct {
	Task         *TaskController
	Subscription *SubscriptionController
	Cache        *CacheController
}

func NewControllers(
	taskService service.ITaskService,
	provider subscription.Provider,
	taskCache *cache.TaskCache,
	recorder *metrics.CounterRecorder,
) *Controllers {
	return &Controllers{
		Task:         NewTaskController(taskService),
		Subscription: NewSubscriptionController(provider),
		Cache:        NewCacheController(taskCache, recorder),
	}
}
