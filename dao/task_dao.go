// api/dao/task_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/api/audit"
	taskhive_errors "github.com/taskhive/taskhive/api/errors"
	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/model"
)

type TaskDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewTaskDAO(driver neo4j.Driver, auditService audit.Service) *TaskDAO {
	dao := &TaskDAO{Driver: driver, AuditService: auditService}
	// Ensure unique constraint on Task ID
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Task", zap.Error(err))
	}
	return dao
}

func (dao *TaskDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_task_id IF NOT EXISTS
        FOR (t:Task) REQUIRE t.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Task ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *TaskDAO) CreateTask(ctx context.Context, task model.Task) (string, error) {
	start := time.Now()
	logger.Info("Creating new task", zap.String("title", task.Title))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (t:Task {id: $id})
        ON CREATE SET t += $props
        ON MATCH SET t += $props
        RETURN t.id as id
        `

		params := map[string]interface{}{
			"id":    task.ID,
			"props": taskProps(task, true),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, taskhive_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, taskhive_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create task",
			zap.Error(err),
			zap.String("title", task.Title),
			zap.Duration("duration", duration))
		return "", err
	}

	taskID := fmt.Sprintf("%v", result)
	logger.Info("Task created successfully",
		zap.String("taskID", taskID),
		zap.Duration("duration", duration))

	dao.logAudit(ctx, audit.ActionCreateTask, taskID)

	return taskID, nil
}

func (dao *TaskDAO) UpdateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	start := time.Now()
	logger.Info("Updating task", zap.String("taskID", task.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedTask *model.Task
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (t:Task {id: $id})
        SET t += $props
        RETURN t
        `

		params := map[string]interface{}{
			"id":    task.ID,
			"props": taskProps(task, false),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, taskhive_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updatedTask = mapNodeToTask(node)
			return nil, nil
		}

		return nil, taskhive_errors.ErrTaskNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("taskID", task.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Task updated successfully",
		zap.String("taskID", task.ID),
		zap.Duration("duration", duration))

	dao.logAudit(ctx, audit.ActionUpdateTask, task.ID)

	return updatedTask, nil
}

func (dao *TaskDAO) DeleteTask(ctx context.Context, taskID string) error {
	logger.Info("Deleting task", zap.String("taskID", taskID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (t:Task {id: $id})
        DETACH DELETE t
        RETURN count(t) as deleted
        `
		result, err := transaction.Run(query, map[string]interface{}{"id": taskID})
		if err != nil {
			return nil, taskhive_errors.ErrDatabaseOperation
		}

		if result.Next() {
			if result.Record().Values[0].(int64) == 0 {
				return nil, taskhive_errors.ErrTaskNotFound
			}
			return nil, nil
		}

		return nil, taskhive_errors.ErrInternalServer
	})

	if err != nil {
		logger.Error("Failed to delete task", zap.Error(err), zap.String("taskID", taskID))
		return err
	}

	dao.logAudit(ctx, audit.ActionDeleteTask, taskID)

	return nil
}

func (dao *TaskDAO) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (t:Task {id: $id})
        RETURN t
        `
		result, err := transaction.Run(query, map[string]interface{}{"id": taskID})
		if err != nil {
			return nil, taskhive_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return mapNodeToTask(node), nil
		}

		return nil, taskhive_errors.ErrTaskNotFound
	})

	if err != nil {
		return nil, err
	}

	return result.(*model.Task), nil
}

func (dao *TaskDAO) ListUserTasks(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error) {
	return dao.listTasks(ctx, "userID", userID, limit, offset)
}

func (dao *TaskDAO) ListTeamTasks(ctx context.Context, teamID string, limit, offset int) ([]*model.Task, error) {
	return dao.listTasks(ctx, "teamID", teamID, limit, offset)
}

func (dao *TaskDAO) ListProjectTasks(ctx context.Context, projectID string, limit, offset int) ([]*model.Task, error) {
	return dao.listTasks(ctx, "projectID", projectID, limit, offset)
}

func (dao *TaskDAO) listTasks(ctx context.Context, field, value string, limit, offset int) ([]*model.Task, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (t:Task)
        WHERE t.%s = $value
        RETURN t
        ORDER BY t.updatedAt DESC
        SKIP $offset LIMIT $limit
        `, field)

		result, err := transaction.Run(query, map[string]interface{}{
			"value":  value,
			"limit":  limit,
			"offset": offset,
		})
		if err != nil {
			return nil, taskhive_errors.ErrDatabaseOperation
		}

		var tasks []*model.Task
		for result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			tasks = append(tasks, mapNodeToTask(node))
		}
		return tasks, nil
	})

	if err != nil {
		logger.Error("Failed to list tasks",
			zap.Error(err),
			zap.String(field, value))
		return nil, err
	}

	return result.([]*model.Task), nil
}

// GetTaskAnalytics aggregates a user's tasks by status and priority.
func (dao *TaskDAO) GetTaskAnalytics(ctx context.Context, userID string) (*model.TaskAnalytics, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (t:Task {userID: $userID})
        RETURN t.status as status, t.priority as priority, t.dueDate as dueDate
        `
		result, err := transaction.Run(query, map[string]interface{}{"userID": userID})
		if err != nil {
			return nil, taskhive_errors.ErrDatabaseOperation
		}

		analytics := &model.TaskAnalytics{
			UserID:     userID,
			ByStatus:   make(map[string]int),
			ByPriority: make(map[string]int),
		}
		now := time.Now()

		for result.Next() {
			values := result.Record().Values
			analytics.Total++
			if status, ok := values[0].(string); ok {
				analytics.ByStatus[status]++
			}
			if priority, ok := values[1].(string); ok {
				analytics.ByPriority[priority]++
			}
			if due, ok := values[2].(string); ok {
				if dueTime, err := time.Parse(time.RFC3339, due); err == nil && dueTime.Before(now) {
					analytics.Overdue++
				}
			}
		}
		return analytics, nil
	})

	if err != nil {
		logger.Error("Failed to compute task analytics",
			zap.Error(err),
			zap.String("userID", userID))
		return nil, err
	}

	return result.(*model.TaskAnalytics), nil
}

func (dao *TaskDAO) logAudit(ctx context.Context, action, taskID string) {
	requestingUserID, _ := ctx.Value("requestingUserID").(string)
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        requestingUserID,
		Action:        action,
		ResourceID:    taskID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}

func taskProps(task model.Task, create bool) map[string]interface{} {
	props := map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"priority":    task.Priority,
		"userID":      task.UserID,
		"teamID":      task.TeamID,
		"projectID":   task.ProjectID,
		"updatedAt":   time.Now().Format(time.RFC3339),
	}
	if task.DueDate != nil {
		props["dueDate"] = task.DueDate.Format(time.RFC3339)
	}
	if create {
		props["createdAt"] = time.Now().Format(time.RFC3339)
	}
	return props
}

func mapNodeToTask(node neo4j.Node) *model.Task {
	props := node.Props

	task := &model.Task{}
	if v, ok := props["id"].(string); ok {
		task.ID = v
	}
	if v, ok := props["title"].(string); ok {
		task.Title = v
	}
	if v, ok := props["description"].(string); ok {
		task.Description = v
	}
	if v, ok := props["status"].(string); ok {
		task.Status = v
	}
	if v, ok := props["priority"].(string); ok {
		task.Priority = v
	}
	if v, ok := props["userID"].(string); ok {
		task.UserID = v
	}
	if v, ok := props["teamID"].(string); ok {
		task.TeamID = v
	}
	if v, ok := props["projectID"].(string); ok {
		task.ProjectID = v
	}
	if v, ok := props["dueDate"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			task.DueDate = &t
		}
	}
	if v, ok := props["createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			task.CreatedAt = t
		}
	}
	if v, ok := props["updatedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			task.UpdatedAt = t
		}
	}
	return task
}
