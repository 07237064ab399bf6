package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskhive/api/metrics"
)

func TestCounterRecorder_Counts(t *testing.T) {
	r := metrics.NewCounterRecorder()

	r.RecordCacheHit("task")
	r.RecordCacheHit("task")
	r.RecordCacheMiss("task")
	r.RecordCacheWrite("user_tasks")
	r.RecordCacheEviction("task")

	snap := r.Snapshot()
	assert.Equal(t, int64(2), snap["task"].Hits)
	assert.Equal(t, int64(1), snap["task"].Misses)
	assert.Equal(t, int64(1), snap["task"].Evictions)
	assert.Equal(t, int64(1), snap["user_tasks"].Writes)
	assert.Equal(t, int64(0), snap["user_tasks"].Hits)
}

func TestCounterRecorder_ConcurrentAccess(t *testing.T) {
	r := metrics.NewCounterRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordCacheHit("task")
			r.RecordCacheMiss("project_tasks")
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, int64(50), snap["task"].Hits)
	assert.Equal(t, int64(50), snap["project_tasks"].Misses)
}
