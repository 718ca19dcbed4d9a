package handler

import "github.com/labstack/echo/v4"

type calculateForm struct {
	ServiceID string `json:"service_id"`
	Quantity  string `json:"quantity"`
}

// Calculate handles POST /api/calculate. Failures only show in the
// calculator panel.
func (h *Handler) Calculate(c echo.Context) error {
	var form calculateForm
	if err := bindForm(c, &form); err != nil {
		return badBody(c)
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	panel, err := ws.Quote.Calculate(c.Request().Context(), form.ServiceID, form.Quantity)
	return render(c, ws, Page{Panel: &panel}, err)
}
