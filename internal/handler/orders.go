package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/utility-ordering-client/internal/order"
)

// Checkout handles POST /api/checkout.
func (h *Handler) Checkout(c echo.Context) error {
	var form order.CheckoutForm
	if err := bindForm(c, &form); err != nil {
		return badBody(c)
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	req, err := form.Request()
	if err != nil {
		return render(c, ws, Page{}, err)
	}
	res, err := ws.Orders.Checkout(c.Request().Context(), req)
	p := Page{ResetForm: res.ResetForm}
	if res.Panel.Kind != "" {
		p.Panel = &res.Panel
	}
	return render(c, ws, p, err)
}

// RefreshOrders handles POST /api/orders/refresh.
func (h *Handler) RefreshOrders(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	ws.Orders.Load(c.Request().Context())
	return render(c, ws, Page{}, nil)
}

// Track handles GET /api/orders/:id/track.
func (h *Handler) Track(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	panel, err := ws.Orders.Track(c.Request().Context(), id)
	return render(c, ws, Page{Panel: &panel}, err)
}
