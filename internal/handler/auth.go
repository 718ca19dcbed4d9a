package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/utility-ordering-client/internal/session"
)

// Signup handles POST /api/signup.
func (h *Handler) Signup(c echo.Context) error {
	var form session.SignupForm
	if err := bindForm(c, &form); err != nil {
		return badBody(c)
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Session.Signup(c.Request().Context(), form)
	return render(c, ws, Page{}, err)
}

// Signin handles POST /api/signin.
func (h *Handler) Signin(c echo.Context) error {
	var form session.SigninForm
	if err := bindForm(c, &form); err != nil {
		return badBody(c)
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Session.Signin(c.Request().Context(), form)
	return render(c, ws, Page{}, err)
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Session.Logout(c.Request().Context())
	return render(c, ws, Page{}, err)
}
