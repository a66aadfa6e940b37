package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"github.com/haaslab/hwtracker/backend/internal/services"
	"github.com/haaslab/hwtracker/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// List returns every project with membership and usage detail
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List()
	if err != nil {
		projectError(c, err)
		return
	}

	response.Success(c, projects)
}

// ListForUser returns projects the given user owns or has joined
// GET /api/projects/user/:username
func (h *ProjectHandler) ListForUser(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}

	projects, err := h.projectService.ListForUser(username)
	if err != nil {
		projectError(c, err)
		return
	}

	response.Success(c, projects)
}

// GetByID returns a single project by its external identifier
// GET /api/projects/:project_id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.projectService.GetByProjectID(c.Param("project_id"))
	if err != nil {
		projectError(c, err)
		return
	}

	info, err := h.projectService.Info(project)
	if err != nil {
		projectError(c, err)
		return
	}

	response.Success(c, info)
}

// Create registers a new project owned by the requesting user
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	info, err := h.projectService.Create(&req)
	if err != nil {
		projectError(c, err)
		return
	}

	response.Created(c, info)
}

// Join adds the requesting user to an existing project
// POST /api/projects/join
func (h *ProjectHandler) Join(c *gin.Context) {
	var req services.JoinProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	info, err := h.projectService.Join(&req)
	if err != nil {
		projectError(c, err)
		return
	}

	response.Success(c, info)
}

func projectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotReady):
		response.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectExists):
		response.Error(c, response.NewConflict(err.Error()))
	case errors.Is(err, services.ErrProjectNotFound):
		response.NotFound(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
