// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/model"
)

type NotificationService struct {
	// Dependencies like a message queue client would go here
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyTaskChange(ctx context.Context, changeType string, task model.Task) error {
	// In a real deployment this would publish to a queue or push service
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: New task created",
			zap.String("taskID", task.ID),
			zap.String("title", task.Title),
			zap.String("assignee", task.UserID))
	case "updated":
		logger.Info("NOTIFICATION: Task updated",
			zap.String("taskID", task.ID),
			zap.String("status", task.Status))
	case "deleted":
		logger.Info("NOTIFICATION: Task deleted",
			zap.String("taskID", task.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}
