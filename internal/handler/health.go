package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness and the number of live workspaces.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "workspaces": h.Spaces.Len()})
}
