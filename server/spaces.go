package server

import (
	"errors"
	"net/http"

	"github.com/existflow/lifeos/internal/store"
	"github.com/labstack/echo/v4"
)

type createSpaceRequest struct {
	Title string `json:"title"`
}

// handleListSpaces lists the caller's spaces.
func (s *Server) handleListSpaces(c echo.Context) error {
	spaces, err := s.store.Spaces(c.Request().Context(), userID(c))
	if err != nil {
		return internalError(c, "list spaces", err)
	}
	return c.JSON(http.StatusOK, spaces)
}

// handleCreateSpace creates a space.
func (s *Server) handleCreateSpace(c echo.Context) error {
	var req createSpaceRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if req.Title == "" {
		return message(c, http.StatusBadRequest, "space title is required")
	}

	space, err := s.store.CreateSpace(c.Request().Context(), userID(c), req.Title)
	if err != nil {
		return internalError(c, "create space", err)
	}
	return c.JSON(http.StatusCreated, space)
}

// handleDeleteSpace removes a space. Its projects and their tasks
// cascade away with it.
func (s *Server) handleDeleteSpace(c echo.Context) error {
	err := s.store.DeleteSpace(c.Request().Context(), userID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusNotFound, "space not found")
	}
	if err != nil {
		return internalError(c, "delete space", err)
	}
	return c.NoContent(http.StatusNoContent)
}
