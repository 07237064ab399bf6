// api/controller/cache_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/api/cache"
	"github.com/taskhive/taskhive/api/metrics"
	"github.com/taskhive/taskhive/api/util"
)

// CacheController exposes operational endpoints for the task cache.
type CacheController struct {
	taskCache *cache.TaskCache
	recorder  *metrics.CounterRecorder
}

func NewCacheController(taskCache *cache.TaskCache, recorder *metrics.CounterRecorder) *CacheController {
	return &CacheController{
		taskCache: taskCache,
		recorder:  recorder,
	}
}

func (cc *CacheController) RegisterRoutes(r *gin.RouterGroup) {
	cacheGroup := r.Group("/cache")
	{
		cacheGroup.GET("/health", cc.GetHealth)
		cacheGroup.GET("/stats", cc.GetStats)
	}
}

// GetHealth probes the cache backend with a round-trip write and read.
func (cc *CacheController) GetHealth(c *gin.Context) {
	available := cc.taskCache.IsCacheAvailable(c)
	status := http.StatusOK
	if !available {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"available": available,
		"metrics":   cc.recorder.Snapshot(),
	})
}

// GetStats reports per-namespace entry counts.
func (cc *CacheController) GetStats(c *gin.Context) {
	stats, err := cc.taskCache.Stats(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to collect cache stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": stats,
		"metrics": cc.recorder.Snapshot(),
	})
}
