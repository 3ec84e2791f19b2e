package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// authMiddleware resolves the bearer token into a user id.
// A missing token is a 401; a bad or expired one is a 403, so clients
// can tell "log in" apart from "log in again".
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return message(c, http.StatusUnauthorized, "access denied: no token provided")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return message(c, http.StatusUnauthorized, "access denied: no token provided")
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			return message(c, http.StatusForbidden, "access denied: invalid token")
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		return next(c)
	}
}

// userID returns the authenticated user's id set by authMiddleware.
func userID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}
