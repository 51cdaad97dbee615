package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/transport/http/middleware"
	"github.com/skabera/TaskManagementSystem/internal/usecase"
)

// ProjectHandler exposes project endpoints.
type ProjectHandler struct {
	projects *usecase.ProjectService
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(projects *usecase.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// RegisterRoutes binds project routes onto an authenticated group.
func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/projects", h.create)
	r.GET("/projects", h.list)
	r.GET("/projects/:id", h.get)
}

var projectErrorCases = []ErrorCase{
	{Err: usecase.ErrProjectNotFound, Status: http.StatusNotFound, Message: "Project not found"},
}

func (h *ProjectHandler) create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid project payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	project, err := h.projects.Create(c.Request.Context(), usecase.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ActorID:     actorID,
	})
	if err != nil {
		RespondWithMappedError(c, err, projectErrorCases, http.StatusInternalServerError, "failed to create project")
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (h *ProjectHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	projects, err := h.projects.List(c.Request.Context(), limit, offset)
	if err != nil {
		RespondWithMappedError(c, err, projectErrorCases, http.StatusInternalServerError, "failed to list projects")
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		out = append(out, newProjectResponse(project))
	}

	c.JSON(http.StatusOK, out)
}

func (h *ProjectHandler) get(c *gin.Context) {
	project, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, projectErrorCases, http.StatusInternalServerError, "failed to load project")
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(*project))
}
