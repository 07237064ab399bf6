// api/service/services.go
package service

import (
	"context"

	"github.com/taskhive/taskhive/api/model"
)

// ITaskService is the task business-logic contract consumed by controllers.
type ITaskService interface {
	CreateTask(ctx context.Context, task model.Task, requestorID string) (*model.Task, error)
	UpdateTask(ctx context.Context, task model.Task, requestorID string) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID string, requestorID string) error
	GetTask(ctx context.Context, taskID string) (*model.Task, error)
	ListUserTasks(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error)
	ListTeamTasks(ctx context.Context, teamID string, limit, offset int) ([]*model.Task, error)
	ListProjectTasks(ctx context.Context, projectID string, limit, offset int) ([]*model.Task, error)
	GetTaskAnalytics(ctx context.Context, userID string) (*model.TaskAnalytics, error)
}

// TaskRepository is what the service needs from the persistence layer.
type TaskRepository interface {
	CreateTask(ctx context.Context, task model.Task) (string, error)
	UpdateTask(ctx context.Context, task model.Task) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	GetTask(ctx context.Context, taskID string) (*model.Task, error)
	ListUserTasks(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error)
	ListTeamTasks(ctx context.Context, teamID string, limit, offset int) ([]*model.Task, error)
	ListProjectTasks(ctx context.Context, projectID string, limit, offset int) ([]*model.Task, error)
	GetTaskAnalytics(ctx context.Context, userID string) (*model.TaskAnalytics, error)
}

// Services bundles the service layer for wiring into controllers.
type Services struct {
	Task ITaskService
}
