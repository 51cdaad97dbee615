package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/transport/http/middleware"
)

// ErrorResponse is the generic failure payload. Every error carries the
// trace ID so support can correlate reports with logs.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with the trace ID from context.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse is the generic success payload without tokens.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthTokenResponse is the success payload carrying an issued token pair.
type AuthTokenResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
}

// RegisterRequest is the payload for POST /api/Auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest is the payload for POST /api/Auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPRequest is the payload for POST /api/Auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RefreshRequest is the payload for POST /api/Auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AccountSummary is the public view of an account.
type AccountSummary struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Status           string     `json:"status"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	EmailVerified    bool       `json:"emailVerified"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	Roles            []string   `json:"roles,omitempty"`
}

func newAccountSummary(account domain.Account, roles []string) AccountSummary {
	return AccountSummary{
		ID:               account.ID,
		Email:            account.Email,
		FirstName:        account.FirstName,
		LastName:         account.LastName,
		Status:           string(account.Status),
		TwoFactorEnabled: account.TwoFactorEnabled,
		EmailVerified:    account.EmailVerified,
		IsActive:         account.IsActive,
		CreatedAt:        account.CreatedAt,
		LastLogin:        account.LastLogin,
		Roles:            roles,
	}
}

// AdminCreateAccountRequest is the payload for POST /api/users.
type AdminCreateAccountRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateAccountRequest is the payload for PUT /api/users/:id.
type UpdateAccountRequest struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	TwoFactorEnabled *bool   `json:"twoFactorEnabled"`
	IsActive         *bool   `json:"isActive"`
	Password         *string `json:"password"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID           string     `json:"id"`
	ProjectID    *string    `json:"projectId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedToID *string    `json:"assignedToId,omitempty"`
	CreatedByID  string     `json:"createdById"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func newTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		ProjectID:    task.ProjectID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       string(task.Status),
		Priority:     string(task.Priority),
		AssignedToID: task.AssignedToID,
		CreatedByID:  task.CreatedByID,
		DueDate:      task.DueDate,
		CreatedAt:    task.CreatedAt,
	}
}

// CreateTaskRequest is the payload for POST /api/tasks.
type CreateTaskRequest struct {
	ProjectID    string     `json:"projectId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	AssignedToID string     `json:"assignedToId"`
	DueDate      *time.Time `json:"dueDate"`
}

// UpdateTaskStatusRequest is the payload for PUT /api/tasks/:id/status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTaskAssigneeRequest is the payload for PUT /api/tasks/:id/assignee.
// A null assignedToId clears the assignment.
type UpdateTaskAssigneeRequest struct {
	AssignedToID *string `json:"assignedToId"`
}

// ProjectResponse is the public view of a project.
type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newProjectResponse(project domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   project.CreatedAt,
	}
}

// CreateProjectRequest is the payload for POST /api/projects.
type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// CommentResponse is the public view of a task comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func newCommentResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// CreateCommentRequest is the payload for POST /api/tasks/:id/comments.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// RoleResponse is the public view of a role.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newRoleResponse(role domain.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
	}
}

// CreateRoleRequest is the payload for POST /api/roles.
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AssignRoleRequest is the payload for POST /api/users/:id/roles.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AuditEntryResponse is the public view of an audit entry.
type AuditEntryResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   *string   `json:"entityId,omitempty"`
	ActorID    *string   `json:"actorId,omitempty"`
	IP         *string   `json:"ip,omitempty"`
	UserAgent  *string   `json:"userAgent,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newAuditEntryResponse(entry domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		CreatedAt:  entry.CreatedAt,
	}
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}
