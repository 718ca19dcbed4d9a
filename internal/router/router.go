// Package router registers the BFF routes on an echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/utility-ordering-client/internal/handler"
)

// RegisterRoutes registers the routes that need no visitor: the health
// check and the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, metrics http.Handler) {
	e.GET("/healthz", h.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAPI registers the page routes under /api. visitor binds the
// request to a workspace; limit guards the routes that submit a form.
func RegisterAPI(e *echo.Echo, h *handler.Handler, visitor, limit echo.MiddlewareFunc) {
	g := e.Group("/api", visitor)

	g.GET("/view", h.View)
	g.GET("/notifications", h.Notifications)
	g.GET("/orders/:id/track", h.Track)

	forms := g.Group("", limit)
	forms.POST("/signup", h.Signup)
	forms.POST("/signin", h.Signin)
	forms.POST("/logout", h.Logout)
	forms.POST("/calculate", h.Calculate)
	forms.POST("/checkout", h.Checkout)
	forms.POST("/orders/refresh", h.RefreshOrders)
	forms.PATCH("/profile", h.UpdateProfile)
	forms.POST("/profile/password", h.ChangePassword)
}
