// api/controller/task_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	taskhive_errors "github.com/taskhive/taskhive/api/errors"
	"github.com/taskhive/taskhive/api/model"
	"github.com/taskhive/taskhive/api/service"
	"github.com/taskhive/taskhive/api/util"
	helper_util "github.com/taskhive/taskhive/api/util/helper"
)

type TaskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// RegisterRoutes registers the API routes. Premium gating is composed here
// per-route: task routes degrade to read-only for lapsed subscribers, the
// analytics route is premium-only.
func (tc *TaskController) RegisterRoutes(r *gin.RouterGroup, premiumGate, analyticsGate gin.HandlerFunc) {
	tasks := r.Group("/tasks")
	{
		tasks.POST("", premiumGate, tc.CreateTask)
		tasks.PUT("/:id", premiumGate, tc.UpdateTask)
		tasks.DELETE("/:id", premiumGate, tc.DeleteTask)
		tasks.GET("/analytics", analyticsGate, tc.GetTaskAnalytics)
		tasks.GET("/:id", premiumGate, tc.GetTask)
		tasks.GET("", premiumGate, tc.ListMyTasks)
		tasks.GET("/team/:teamId", premiumGate, tc.ListTeamTasks)
		tasks.GET("/project/:projectId", premiumGate, tc.ListProjectTasks)
	}
}

// CreateTask endpoint
func (tc *TaskController) CreateTask(c *gin.Context) {
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid task data", taskhive_errors.ErrInvalidTaskData)
		return
	}
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", taskhive_errors.ErrUnauthorized)
		return
	}
	if task.UserID == "" {
		task.UserID = userID
	}

	createdTask, err := tc.taskService.CreateTask(c, task, userID)
	if err != nil {
		switch err {
		case taskhive_errors.ErrInvalidTaskData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid task data", err)
		case taskhive_errors.ErrTaskConflict:
			util.RespondWithError(c, http.StatusConflict, "Task already exists", err)
		case taskhive_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create task", taskhive_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, createdTask)
}

// UpdateTask endpoint
func (tc *TaskController) UpdateTask(c *gin.Context) {
	taskID := c.Param("id")
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid task data", err)
		return
	}
	task.ID = taskID
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", taskhive_errors.ErrUnauthorized)
		return
	}

	updatedTask, err := tc.taskService.UpdateTask(c, task, userID)
	if err != nil {
		switch err {
		case taskhive_errors.ErrTaskNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Task not found", err)
		case taskhive_errors.ErrInvalidTaskData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid task data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update task", err)
		}
		return
	}

	c.JSON(http.StatusOK, updatedTask)
}

// DeleteTask endpoint
func (tc *TaskController) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", taskhive_errors.ErrUnauthorized)
		return
	}

	if err := tc.taskService.DeleteTask(c, taskID, userID); err != nil {
		if err == taskhive_errors.ErrTaskNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Task not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete task", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTask endpoint
func (tc *TaskController) GetTask(c *gin.Context) {
	taskID := c.Param("id")

	task, err := tc.taskService.GetTask(c, taskID)
	if err != nil {
		if err == taskhive_errors.ErrTaskNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Task not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get task", err)
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListMyTasks endpoint lists the requesting user's tasks
func (tc *TaskController) ListMyTasks(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", taskhive_errors.ErrUnauthorized)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", taskhive_errors.ErrInvalidPagination)
		return
	}

	tasks, err := tc.taskService.ListUserTasks(c, userID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// ListTeamTasks endpoint
func (tc *TaskController) ListTeamTasks(c *gin.Context) {
	teamID := c.Param("teamId")

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", taskhive_errors.ErrInvalidPagination)
		return
	}

	tasks, err := tc.taskService.ListTeamTasks(c, teamID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list team tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// ListProjectTasks endpoint
func (tc *TaskController) ListProjectTasks(c *gin.Context) {
	projectID := c.Param("projectId")

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", taskhive_errors.ErrInvalidPagination)
		return
	}

	tasks, err := tc.taskService.ListProjectTasks(c, projectID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list project tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// GetTaskAnalytics endpoint
func (tc *TaskController) GetTaskAnalytics(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", taskhive_errors.ErrUnauthorized)
		return
	}

	analytics, err := tc.taskService.GetTaskAnalytics(c, userID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute analytics", err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
