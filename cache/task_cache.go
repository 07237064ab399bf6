// api/cache/task_cache.go

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	taskhive_errors "github.com/taskhive/taskhive/api/errors"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/metrics"
	"github.com/taskhive/taskhive/api/model"
)

// Cache key namespaces. Keys are "<prefix>:<namespace>:<id>" so that a whole
// kind can be enumerated or evicted without a separate index.
const (
	NamespaceTask         = "task"
	NamespaceUserTasks    = "user_tasks"
	NamespaceTeamTasks    = "team_tasks"
	NamespaceProjectTasks = "project_tasks"

	namespaceHealth = "health"

	defaultKeyPrefix = "taskmanagement"
)

// Fixed per-kind TTLs. Lists churn faster than single tasks as members'
// tasks shift, so they expire sooner. Staleness is bounded by these values
// plus the explicit evictions on the write path.
const (
	taskTTL = 15 * time.Minute
	listTTL = 10 * time.Minute

	healthProbeTTL = 10 * time.Second
)

// CacheStats reports key counts per namespace for observability.
type CacheStats struct {
	Namespaces map[string]int `json:"namespaces"`
	Total      int            `json:"total"`
}

// TaskCache fronts the task store with a best-effort key-value cache. It is
// never a source of truth: read failures are folded into miss semantics and
// write failures surface as a typed CacheError the caller logs and drops.
type TaskCache struct {
	store    Store
	recorder metrics.Recorder
	prefix   string
}

func NewTaskCache(store Store, recorder metrics.Recorder, prefix string) *TaskCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &TaskCache{
		store:    store,
		recorder: recorder,
		prefix:   prefix,
	}
}

func (c *TaskCache) key(namespace, id string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, namespace, id)
}

// set marshals value and writes it under the namespaced key. The write
// metric records the attempt whether or not the backend accepts it.
func (c *TaskCache) set(ctx context.Context, namespace, id string, value interface{}, ttl time.Duration) error {
	key := c.key(namespace, id)
	c.recorder.RecordCacheWrite(namespace)

	data, err := json.Marshal(value)
	if err != nil {
		return taskhive_errors.NewCacheError("marshal", key, err)
	}
	if err := c.store.Set(ctx, key, string(data), ttl); err != nil {
		return taskhive_errors.NewCacheError("set", key, err)
	}

	logger.Debug("Cache entry written",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// lookup reads and unmarshals the namespaced key into dest. It reports
// whether the read was a hit; backend failures and corrupt payloads count
// as misses so callers have a single fallback path.
func (c *TaskCache) lookup(ctx context.Context, namespace, id string, dest interface{}) bool {
	key := c.key(namespace, id)

	data, err := c.store.Get(ctx, key)
	if errors.Is(err, taskhive_errors.ErrKeyNotFound) {
		c.recorder.RecordCacheMiss(namespace)
		logger.Debug("Cache miss", zap.String("key", key))
		return false
	} else if err != nil {
		c.recorder.RecordCacheMiss(namespace)
		logger.Warn("Cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.recorder.RecordCacheMiss(namespace)
		logger.Warn("Cache entry corrupt, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	c.recorder.RecordCacheHit(namespace)
	logger.Debug("Cache hit", zap.String("key", key))
	return true
}

func (c *TaskCache) evict(ctx context.Context, namespace, id string) error {
	key := c.key(namespace, id)
	c.recorder.RecordCacheEviction(namespace)

	// A missing key is not an error, only a backend failure is.
	if err := c.store.Delete(ctx, key); err != nil {
		return taskhive_errors.NewCacheError("delete", key, err)
	}

	logger.Debug("Cache entry evicted", zap.String("key", key))
	return nil
}

func (c *TaskCache) CacheTask(ctx context.Context, taskID string, task *model.Task) error {
	return c.set(ctx, NamespaceTask, taskID, task, taskTTL)
}

// GetTask returns the cached task or nil on miss. It never returns an error
// for backend failures; the caller falls back to the source of truth either
// way.
func (c *TaskCache) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	if !c.lookup(ctx, NamespaceTask, taskID, &task) {
		return nil, nil
	}
	return &task, nil
}

func (c *TaskCache) CacheUserTasks(ctx context.Context, userID string, tasks []*model.Task) error {
	return c.set(ctx, NamespaceUserTasks, userID, tasks, listTTL)
}

func (c *TaskCache) GetUserTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	var tasks []*model.Task
	if !c.lookup(ctx, NamespaceUserTasks, userID, &tasks) {
		return nil, nil
	}
	return tasks, nil
}

func (c *TaskCache) CacheTeamTasks(ctx context.Context, teamID string, tasks []*model.Task) error {
	return c.set(ctx, NamespaceTeamTasks, teamID, tasks, listTTL)
}

func (c *TaskCache) GetTeamTasks(ctx context.Context, teamID string) ([]*model.Task, error) {
	var tasks []*model.Task
	if !c.lookup(ctx, NamespaceTeamTasks, teamID, &tasks) {
		return nil, nil
	}
	return tasks, nil
}

func (c *TaskCache) CacheProjectTasks(ctx context.Context, projectID string, tasks []*model.Task) error {
	return c.set(ctx, NamespaceProjectTasks, projectID, tasks, listTTL)
}

func (c *TaskCache) GetProjectTasks(ctx context.Context, projectID string) ([]*model.Task, error) {
	var tasks []*model.Task
	if !c.lookup(ctx, NamespaceProjectTasks, projectID, &tasks) {
		return nil, nil
	}
	return tasks, nil
}

func (c *TaskCache) EvictTask(ctx context.Context, taskID string) error {
	return c.evict(ctx, NamespaceTask, taskID)
}

// EvictRelatedCaches invalidates the task entry and the three list views a
// task write can affect, in a fixed order. Every eviction is attempted even
// if an earlier one fails; failures are logged per key and aggregated into
// the returned error. There is no atomicity across the batch: a reader may
// observe a stale list until its TTL, never a stale task after the task key
// itself is evicted.
func (c *TaskCache) EvictRelatedCaches(ctx context.Context, taskID, userID, teamID, projectID string) error {
	evictions := []struct {
		namespace string
		id        string
	}{
		{NamespaceTask, taskID},
		{NamespaceUserTasks, userID},
		{NamespaceTeamTasks, teamID},
		{NamespaceProjectTasks, projectID},
	}

	var errs []error
	for _, e := range evictions {
		if e.id == "" {
			continue // task without a team or project
		}
		if err := c.evict(ctx, e.namespace, e.id); err != nil {
			logger.Warn("Failed to evict related cache entry",
				zap.String("namespace", e.namespace),
				zap.String("id", e.id),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsCacheAvailable probes the backend with a full set/get/delete round trip.
// Used for health reporting only; normal operations never gate on it.
func (c *TaskCache) IsCacheAvailable(ctx context.Context) bool {
	key := c.key(namespaceHealth, uuid.New().String())

	if err := c.store.Set(ctx, key, "ok", healthProbeTTL); err != nil {
		return false
	}
	value, err := c.store.Get(ctx, key)
	if err != nil || value != "ok" {
		return false
	}
	if err := c.store.Delete(ctx, key); err != nil {
		return false
	}
	return true
}

// Stats counts keys per namespace. A failed enumeration counts as zero for
// that namespace rather than failing the whole report.
func (c *TaskCache) Stats(ctx context.Context) (*CacheStats, error) {
	namespaces := []string{
		NamespaceTask,
		NamespaceUserTasks,
		NamespaceTeamTasks,
		NamespaceProjectTasks,
	}

	var mu sync.Mutex
	counts := make(map[string]int, len(namespaces))

	g, gctx := errgroup.WithContext(ctx)
	for _, namespace := range namespaces {
		namespace := namespace
		g.Go(func() error {
			keys, err := c.store.Keys(gctx, fmt.Sprintf("%s:%s:*", c.prefix, namespace))
			if err != nil {
				logger.Warn("Cache key enumeration failed",
					zap.String("namespace", namespace),
					zap.Error(err))
				keys = nil
			}
			mu.Lock()
			counts[namespace] = len(keys)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	stats := &CacheStats{Namespaces: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
