// api/util/validation_util.go

package util

import (
	"fmt"

	"github.com/taskhive/taskhive/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

var validTaskStatuses = map[string]bool{
	"TODO":        true,
	"IN_PROGRESS": true,
	"DONE":        true,
}

var validTaskPriorities = map[string]bool{
	"LOW":    true,
	"MEDIUM": true,
	"HIGH":   true,
}

func (v *ValidationUtil) ValidateTask(task model.Task) error {
	if task.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if task.UserID == "" {
		return fmt.Errorf("task user ID cannot be empty")
	}
	if task.Status != "" && !validTaskStatuses[task.Status] {
		return fmt.Errorf("invalid task status: %s", task.Status)
	}
	if task.Priority != "" && !validTaskPriorities[task.Priority] {
		return fmt.Errorf("invalid task priority: %s", task.Priority)
	}
	// Add more validation rules as needed
	return nil
}
