package server

import (
	"errors"
	"net/http"

	"github.com/existflow/lifeos/internal/store"
	"github.com/labstack/echo/v4"
)

type createTaskRequest struct {
	Title string `json:"title"`
}

type updateTaskRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

type moveTaskRequest struct {
	ProjectID string `json:"projectId"`
}

// handleInboxTasks lists the caller's unfiled tasks, newest first.
func (s *Server) handleInboxTasks(c echo.Context) error {
	tasks, err := s.store.InboxTasks(c.Request().Context(), userID(c))
	if err != nil {
		return internalError(c, "list inbox tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// handleProjectTasks lists one project's tasks. A project the caller
// does not own looks exactly like one that does not exist.
func (s *Server) handleProjectTasks(c echo.Context) error {
	tasks, err := s.store.ProjectTasks(c.Request().Context(), userID(c), c.Param("projectId"))
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "project not found")
	}
	if err != nil {
		return internalError(c, "list project tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// handleCreateTask creates a task. New tasks always land in the inbox.
func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if req.Title == "" {
		return message(c, http.StatusBadRequest, "task title is required")
	}

	task, err := s.store.CreateTask(c.Request().Context(), userID(c), req.Title)
	if err != nil {
		return internalError(c, "create task", err)
	}
	return c.JSON(http.StatusCreated, task)
}

// handleUpdateTask sets the completion flag and returns the updated row.
func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if req.IsCompleted == nil {
		return message(c, http.StatusBadRequest, "is_completed is required")
	}

	task, err := s.store.SetTaskCompleted(c.Request().Context(), userID(c), c.Param("id"), *req.IsCompleted)
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		return internalError(c, "update task", err)
	}
	return c.JSON(http.StatusOK, task)
}

// handleMoveTask files an inbox task into one of the caller's projects.
func (s *Server) handleMoveTask(c echo.Context) error {
	var req moveTaskRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if req.ProjectID == "" {
		return message(c, http.StatusBadRequest, "projectId is required")
	}

	task, err := s.store.MoveTask(c.Request().Context(), userID(c), c.Param("id"), req.ProjectID)
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		return internalError(c, "move task", err)
	}
	return c.JSON(http.StatusOK, task)
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(c echo.Context) error {
	err := s.store.DeleteTask(c.Request().Context(), userID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "task not found")
	}
	if err != nil {
		return internalError(c, "delete task", err)
	}
	return c.NoContent(http.StatusNoContent)
}
