package service_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/api/cache"
	taskhive_errors "github.com/taskhive/taskhive/api/errors"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/metrics"
	"github.com/taskhive/taskhive/api/model"
	"github.com/taskhive/taskhive/api/service"
	mock_test "github.com/taskhive/taskhive/api/test/mock"
	"github.com/taskhive/taskhive/api/util"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

type serviceFixture struct {
	repo      *mock_test.MockTaskRepository
	taskCache *cache.TaskCache
	svc       *service.TaskService
}

func newServiceFixture() *serviceFixture {
	repo := &mock_test.MockTaskRepository{}
	taskCache := cache.NewTaskCache(cache.NewMemoryStore(), metrics.NewCounterRecorder(), "")
	bus := util.NewEventBus()
	svc := service.NewTaskService(repo, util.NewValidationUtil(), taskCache, util.NewNotificationService(), bus)
	return &serviceFixture{repo: repo, taskCache: taskCache, svc: svc}
}

func storedTask(id string) *model.Task {
	return &model.Task{
		ID:        id,
		Title:     "Ship the beta",
		Status:    "IN_PROGRESS",
		Priority:  "HIGH",
		UserID:    "user-7",
		TeamID:    "team-1",
		ProjectID: "proj-1",
	}
}

func TestGetTask_ReadThroughCaching(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	task := storedTask("42")

	// The store must be consulted exactly once; the second read is served
	// from cache.
	f.repo.On("GetTask", mock.Anything, "42").Return(task, nil).Once()

	first, err := f.svc.GetTask(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", first.ID)

	second, err := f.svc.GetTask(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", second.ID)

	f.repo.AssertExpectations(t)
}

func TestGetTask_NotFoundPropagates(t *testing.T) {
	f := newServiceFixture()
	f.repo.On("GetTask", mock.Anything, "absent").Return(nil, taskhive_errors.ErrTaskNotFound)

	_, err := f.svc.GetTask(context.Background(), "absent")
	assert.ErrorIs(t, err, taskhive_errors.ErrTaskNotFound)
}

func TestCreateTask_ValidatesInput(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.CreateTask(context.Background(), model.Task{UserID: "user-7"}, "user-7")
	assert.ErrorIs(t, err, taskhive_errors.ErrInvalidTaskData)
	f.repo.AssertNotCalled(t, "CreateTask")
}

func TestCreateTask_EvictsListViews(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	task := storedTask("42")

	// Stale list views from before the write
	require.NoError(t, f.taskCache.CacheUserTasks(ctx, "user-7", []*model.Task{}))
	require.NoError(t, f.taskCache.CacheTeamTasks(ctx, "team-1", []*model.Task{}))
	require.NoError(t, f.taskCache.CacheProjectTasks(ctx, "proj-1", []*model.Task{}))

	f.repo.On("CreateTask", mock.Anything, mock.Anything).Return("42", nil)
	f.repo.On("GetTask", mock.Anything, "42").Return(task, nil)

	created, err := f.svc.CreateTask(ctx, model.Task{Title: "Ship the beta", UserID: "user-7", TeamID: "team-1", ProjectID: "proj-1"}, "user-7")
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)

	userList, _ := f.taskCache.GetUserTasks(ctx, "user-7")
	assert.Nil(t, userList, "user list view must be evicted after a write")
	teamList, _ := f.taskCache.GetTeamTasks(ctx, "team-1")
	assert.Nil(t, teamList)
	projectList, _ := f.taskCache.GetProjectTasks(ctx, "proj-1")
	assert.Nil(t, projectList)
}

func TestUpdateTask_EvictsOldOwnerViewsWhenReassigned(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	old := storedTask("42")
	updated := storedTask("42")
	updated.UserID = "user-9"

	require.NoError(t, f.taskCache.CacheUserTasks(ctx, "user-7", []*model.Task{old}))
	require.NoError(t, f.taskCache.CacheUserTasks(ctx, "user-9", []*model.Task{}))

	f.repo.On("GetTask", mock.Anything, "42").Return(old, nil)
	f.repo.On("UpdateTask", mock.Anything, mock.Anything).Return(updated, nil)

	_, err := f.svc.UpdateTask(ctx, *updated, "user-9")
	require.NoError(t, err)

	oldList, _ := f.taskCache.GetUserTasks(ctx, "user-7")
	assert.Nil(t, oldList, "previous owner's list view must be evicted")
	newList, _ := f.taskCache.GetUserTasks(ctx, "user-9")
	assert.Nil(t, newList)
}

func TestDeleteTask_EvictsTaskEntry(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	task := storedTask("42")

	require.NoError(t, f.taskCache.CacheTask(ctx, "42", task))

	f.repo.On("GetTask", mock.Anything, "42").Return(task, nil)
	f.repo.On("DeleteTask", mock.Anything, "42").Return(nil)

	require.NoError(t, f.svc.DeleteTask(ctx, "42", "user-7"))

	cached, _ := f.taskCache.GetTask(ctx, "42")
	assert.Nil(t, cached)
}

func TestListUserTasks_CachesDefaultPageOnly(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	tasks := []*model.Task{storedTask("1"), storedTask("2")}

	f.repo.On("ListUserTasks", mock.Anything, "user-7", 10, 0).Return(tasks, nil).Once()

	first, err := f.svc.ListUserTasks(ctx, "user-7", 10, 0)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// Second default-page read is served from cache
	second, err := f.svc.ListUserTasks(ctx, "user-7", 10, 0)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	f.repo.AssertExpectations(t)

	// A custom page shape always goes to the store
	f.repo.On("ListUserTasks", mock.Anything, "user-7", 50, 10).Return(tasks, nil).Once()
	_, err = f.svc.ListUserTasks(ctx, "user-7", 50, 10)
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}
