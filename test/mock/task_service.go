// test/mock/task_service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taskhive/taskhive/api/model"
)

// MockTaskService is a mock implementation of service.ITaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, task model.Task, requestorID string) (*model.Task, error) {
	args := m.Called(ctx, task, requestorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, task model.Task, requestorID string) (*model.Task, error) {
	args := m.Called(ctx, task, requestorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID string, requestorID string) error {
	args := m.Called(ctx, taskID, requestorID)
	return args.Error(0)
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) ListUserTasks(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Task), args.Error(1)
}

func (m *MockTaskService) ListTeamTasks(ctx context.Context, teamID string, limit, offset int) ([]*model.Task, error) {
	args := m.Called(ctx, teamID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Task), args.Error(1)
}

func (m *MockTaskService) ListProjectTasks(ctx context.Context, projectID string, limit, offset int) ([]*model.Task, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskAnalytics(ctx context.Context, userID string) (*model.TaskAnalytics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskAnalytics), args.Error(1)
}
