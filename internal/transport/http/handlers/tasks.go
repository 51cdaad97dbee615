package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/transport/http/middleware"
	"github.com/skabera/TaskManagementSystem/internal/usecase"
)

// TaskHandler exposes task endpoints.
type TaskHandler struct {
	tasks    *usecase.TaskService
	comments *usecase.CommentService
}

// NewTaskHandler constructs a TaskHandler.
func NewTaskHandler(tasks *usecase.TaskService, comments *usecase.CommentService) *TaskHandler {
	return &TaskHandler{tasks: tasks, comments: comments}
}

// RegisterRoutes binds task routes onto an authenticated group.
func (h *TaskHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/tasks", h.create)
	r.GET("/tasks", h.list)
	r.GET("/tasks/:id", h.get)
	r.PUT("/tasks/:id/status", h.updateStatus)
	r.PUT("/tasks/:id/assignee", h.updateAssignee)
	r.DELETE("/tasks/:id", h.delete)
	r.POST("/tasks/:id/comments", h.createComment)
	r.GET("/tasks/:id/comments", h.listComments)
}

var taskErrorCases = []ErrorCase{
	{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "Task not found"},
	{Err: usecase.ErrProjectNotFound, Status: http.StatusBadRequest, Message: "Project not found"},
	{Err: usecase.ErrAccountNotFound, Status: http.StatusBadRequest, Message: "Assignee not found"},
	{Err: usecase.ErrInvalidTaskStatus, Status: http.StatusBadRequest, Message: "Invalid task status"},
	{Err: usecase.ErrInvalidTaskPriority, Status: http.StatusBadRequest, Message: "Invalid task priority"},
}

func (h *TaskHandler) create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid task payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	task, err := h.tasks.Create(c.Request.Context(), usecase.CreateTaskInput{
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
		CreatedByID:  actorID,
		DueDate:      req.DueDate,
	})
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *TaskHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := port.TaskFilter{
		ProjectID:    c.Query("projectId"),
		AssignedToID: c.Query("assignedToId"),
		Status:       domain.TaskStatus(c.Query("status")),
		Limit:        limit,
		Offset:       offset,
	}

	tasks, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, newTaskResponse(task))
	}

	c.JSON(http.StatusOK, out)
}

func (h *TaskHandler) get(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to load task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

func (h *TaskHandler) updateStatus(c *gin.Context) {
	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	task, err := h.tasks.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, actorID)
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to update task status")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

func (h *TaskHandler) updateAssignee(c *gin.Context) {
	var req UpdateTaskAssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid assignee payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	task, err := h.tasks.Reassign(c.Request.Context(), c.Param("id"), req.AssignedToID, actorID)
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to reassign task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

func (h *TaskHandler) delete(c *gin.Context) {
	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	if err := h.tasks.Delete(c.Request.Context(), c.Param("id"), actorID); err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Task deleted"})
}

func (h *TaskHandler) createComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid comment payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	comment, err := h.comments.Create(c.Request.Context(), c.Param("id"), actorID, req.Content)
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, newCommentResponse(comment))
}

func (h *TaskHandler) listComments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	comments, err := h.comments.ListByTask(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		RespondWithMappedError(c, err, taskErrorCases, http.StatusInternalServerError, "failed to list comments")
		return
	}

	out := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, newCommentResponse(comment))
	}

	c.JSON(http.StatusOK, out)
}
