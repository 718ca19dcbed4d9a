package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// View handles GET /api/view. The first call of a workspace probes the
// remote session.
func (h *Handler) View(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	ws.Resolve(c.Request().Context())
	return render(c, ws, Page{}, nil)
}

// Notifications handles GET /api/notifications.
func (h *Handler) Notifications(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"notices": ws.Notices.Snapshot()})
}
