package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/utility-ordering-client/internal/model"
)

type passwordForm struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateProfile handles PATCH /api/profile. Only submitted keys are sent.
func (h *Handler) UpdateProfile(c echo.Context) error {
	vals, err := formValues(c)
	if err != nil {
		return badBody(c)
	}
	pick := func(k string) *string {
		if v, ok := vals[k]; ok {
			return &v
		}
		return nil
	}
	fields := model.ProfileUpdate{
		Username:     pick("username"),
		MobileNumber: pick("mobile_number"),
		Email:        pick("email"),
		FirstName:    pick("first_name"),
		LastName:     pick("last_name"),
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Session.UpdateProfile(c.Request().Context(), fields)
	return render(c, ws, Page{}, err)
}

// ChangePassword handles POST /api/profile/password.
func (h *Handler) ChangePassword(c echo.Context) error {
	var form passwordForm
	if err := bindForm(c, &form); err != nil {
		return badBody(c)
	}
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Session.ChangePassword(c.Request().Context(), form.OldPassword, form.NewPassword)
	return render(c, ws, Page{}, err)
}
