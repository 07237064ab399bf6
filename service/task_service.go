// api/service/task_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/api/cache"
	taskhive_errors "github.com/taskhive/taskhive/api/errors"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/model"
	"github.com/taskhive/taskhive/api/util"
)

// defaultListLimit is the page size list caches are keyed to. Other page
// shapes bypass the cache and hit the store directly.
const defaultListLimit = 10

// TaskService handles business logic for task operations. Reads go through
// the task cache; writes go to the store first and then invalidate every
// cache view the task appears in.
type TaskService struct {
	taskDAO         TaskRepository
	validationUtil  *util.ValidationUtil
	taskCache       *cache.TaskCache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(taskDAO TaskRepository, validationUtil *util.ValidationUtil, taskCache *cache.TaskCache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *TaskService {
	service := &TaskService{
		taskDAO:         taskDAO,
		validationUtil:  validationUtil,
		taskCache:       taskCache,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe(util.EventTaskCreated, service.handleTaskCreated)
	eventBus.Subscribe(util.EventTaskUpdated, service.handleTaskUpdated)
	eventBus.Subscribe(util.EventTaskDeleted, service.handleTaskDeleted)

	return service
}

func (s *TaskService) handleTaskCreated(ctx context.Context, event util.Event) error {
	task, ok := event.Payload.(model.Task)
	if !ok {
		return nil
	}
	if err := s.notificationSvc.NotifyTaskChange(ctx, "created", task); err != nil {
		logger.Warn("Failed to send task creation notification", zap.Error(err), zap.String("taskID", task.ID))
	}
	return nil
}

func (s *TaskService) handleTaskUpdated(ctx context.Context, event util.Event) error {
	task, ok := event.Payload.(model.Task)
	if !ok {
		return nil
	}
	if err := s.notificationSvc.NotifyTaskChange(ctx, "updated", task); err != nil {
		logger.Warn("Failed to send task update notification", zap.Error(err), zap.String("taskID", task.ID))
	}
	return nil
}

func (s *TaskService) handleTaskDeleted(ctx context.Context, event util.Event) error {
	task, ok := event.Payload.(model.Task)
	if !ok {
		return nil
	}
	if err := s.notificationSvc.NotifyTaskChange(ctx, "deleted", task); err != nil {
		logger.Warn("Failed to send task deletion notification", zap.Error(err), zap.String("taskID", task.ID))
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, task model.Task, requestorID string) (*model.Task, error) {
	if err := s.validationUtil.ValidateTask(task); err != nil {
		logger.Warn("Invalid task data", zap.Error(err))
		return nil, taskhive_errors.ErrInvalidTaskData
	}
	if task.Status == "" {
		task.Status = "TODO"
	}
	if task.Priority == "" {
		task.Priority = "MEDIUM"
	}

	taskID, err := s.taskDAO.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	created, err := s.taskDAO.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.invalidateTaskCaches(ctx, created)
	s.eventBus.Publish(ctx, util.EventTaskCreated, *created)

	return created, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, task model.Task, requestorID string) (*model.Task, error) {
	if err := s.validationUtil.ValidateTask(task); err != nil {
		logger.Warn("Invalid task data", zap.Error(err))
		return nil, taskhive_errors.ErrInvalidTaskData
	}

	// The previous owner/team/project views also go stale if the task moved.
	old, err := s.taskDAO.GetTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	updated, err := s.taskDAO.UpdateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	s.invalidateTaskCaches(ctx, updated)
	if old.UserID != updated.UserID || old.TeamID != updated.TeamID || old.ProjectID != updated.ProjectID {
		s.invalidateTaskCaches(ctx, old)
	}
	s.eventBus.Publish(ctx, util.EventTaskUpdated, *updated)

	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID string, requestorID string) error {
	task, err := s.taskDAO.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.taskDAO.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	s.invalidateTaskCaches(ctx, task)
	s.eventBus.Publish(ctx, util.EventTaskDeleted, *task)

	return nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	if cached, _ := s.taskCache.GetTask(ctx, taskID); cached != nil {
		return cached, nil
	}

	task, err := s.taskDAO.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskCache.CacheTask(ctx, task.ID, task); err != nil {
		logger.Warn("Failed to cache task", zap.Error(err), zap.String("taskID", task.ID))
	}

	return task, nil
}

func (s *TaskService) ListUserTasks(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error) {
	cacheable := limit == defaultListLimit && offset == 0
	if cacheable {
		if cached, _ := s.taskCache.GetUserTasks(ctx, userID); cached != nil {
			return cached, nil
		}
	}

	tasks, err := s.taskDAO.ListUserTasks(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.taskCache.CacheUserTasks(ctx, userID, tasks); err != nil {
			logger.Warn("Failed to cache user task list", zap.Error(err), zap.String("userID", userID))
		}
	}

	return tasks, nil
}

func (s *TaskService) ListTeamTasks(ctx context.Context, teamID string, limit, offset int) ([]*model.Task, error) {
	cacheable := limit == defaultListLimit && offset == 0
	if cacheable {
		if cached, _ := s.taskCache.GetTeamTasks(ctx, teamID); cached != nil {
			return cached, nil
		}
	}

	tasks, err := s.taskDAO.ListTeamTasks(ctx, teamID, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.taskCache.CacheTeamTasks(ctx, teamID, tasks); err != nil {
			logger.Warn("Failed to cache team task list", zap.Error(err), zap.String("teamID", teamID))
		}
	}

	return tasks, nil
}

func (s *TaskService) ListProjectTasks(ctx context.Context, projectID string, limit, offset int) ([]*model.Task, error) {
	cacheable := limit == defaultListLimit && offset == 0
	if cacheable {
		if cached, _ := s.taskCache.GetProjectTasks(ctx, projectID); cached != nil {
			return cached, nil
		}
	}

	tasks, err := s.taskDAO.ListProjectTasks(ctx, projectID, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.taskCache.CacheProjectTasks(ctx, projectID, tasks); err != nil {
			logger.Warn("Failed to cache project task list", zap.Error(err), zap.String("projectID", projectID))
		}
	}

	return tasks, nil
}

func (s *TaskService) GetTaskAnalytics(ctx context.Context, userID string) (*model.TaskAnalytics, error) {
	return s.taskDAO.GetTaskAnalytics(ctx, userID)
}

// invalidateTaskCaches evicts the task entry and the list views it appears
// in. Cache failures degrade performance, never correctness, so they are
// logged and dropped here.
func (s *TaskService) invalidateTaskCaches(ctx context.Context, task *model.Task) {
	if err := s.taskCache.EvictRelatedCaches(ctx, task.ID, task.UserID, task.TeamID, task.ProjectID); err != nil {
		logger.Warn("Failed to evict task caches",
			zap.Error(err),
			zap.String("taskID", task.ID))
	}
}
