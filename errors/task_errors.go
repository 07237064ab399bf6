// api/errors/task_errors.go
package errors

import "errors"

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrDatabaseOperation     = errors.New("database operation failed")
	ErrInvalidTaskData       = errors.New("invalid task data")
	ErrTaskConflict          = errors.New("task already exists")
	ErrInternalServer        = errors.New("internal server error")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidPagination     = errors.New("invalid pagination parameters")
	ErrInvalidSearchCriteria = errors.New("invalid search criteria")
)
