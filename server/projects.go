package server

import (
	"errors"
	"net/http"

	"github.com/existflow/lifeos/internal/store"
	"github.com/labstack/echo/v4"
)

type createProjectRequest struct {
	Title   string `json:"title"`
	SpaceID string `json:"spaceId"`
}

// handleListProjects lists the caller's projects.
func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.Projects(c.Request().Context(), userID(c))
	if err != nil {
		return internalError(c, "list projects", err)
	}
	return c.JSON(http.StatusOK, projects)
}

// handleCreateProject creates a project under one of the caller's
// spaces. A foreign space id gets a 404, same as any other resource
// the caller does not own.
func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if req.Title == "" || req.SpaceID == "" {
		return message(c, http.StatusBadRequest, "project title and spaceId are required")
	}

	project, err := s.store.CreateProject(c.Request().Context(), userID(c), req.SpaceID, req.Title)
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "space not found")
	}
	if err != nil {
		return internalError(c, "create project", err)
	}
	return c.JSON(http.StatusCreated, project)
}

// handleDeleteProject removes a project and, by cascade, its tasks.
func (s *Server) handleDeleteProject(c echo.Context) error {
	err := s.store.DeleteProject(c.Request().Context(), userID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "project not found")
	}
	if err != nil {
		return internalError(c, "delete project", err)
	}
	return c.NoContent(http.StatusNoContent)
}
