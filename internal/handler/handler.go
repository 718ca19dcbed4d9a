package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/middleware"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/view"
	"github.com/iliyamo/utility-ordering-client/internal/workspace"
)

// Handler serves the BFF routes. Every route resolves the caller's
// workspace from the visitor id and answers with the refreshed page.
type Handler struct {
	Spaces *workspace.Registry
	Log    *zap.SugaredLogger
}

func New(spaces *workspace.Registry, log *zap.SugaredLogger) *Handler {
	return &Handler{Spaces: spaces, Log: log.Named("handler")}
}

// Page is the JSON body of every BFF response.
type Page struct {
	View            view.Dashboard  `json:"view"`
	CalculatorPanel *view.Panel     `json:"calculator_panel,omitempty"`
	CheckoutPanel   *view.Panel     `json:"checkout_panel,omitempty"`
	Panel           *view.Panel     `json:"panel,omitempty"`
	ResetForm       bool            `json:"reset_form,omitempty"`
	Notices         []notify.Notice `json:"notices"`
	Error           string          `json:"error,omitempty"`
}

func (h *Handler) workspace(c echo.Context) (*workspace.Workspace, error) {
	ws, err := h.Spaces.Get(middleware.VisitorID(c))
	if err != nil {
		h.Log.Errorw("open workspace", "visitor", middleware.VisitorID(c), "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "workspace unavailable")
	}
	return ws, nil
}

func page(ws *workspace.Workspace) Page {
	p := Page{View: ws.View(), Notices: ws.Notices.Snapshot()}
	if panel, ok := ws.Quote.Panel(); ok {
		p.CalculatorPanel = &panel
	}
	if panel, ok := ws.Orders.Panel(); ok {
		p.CheckoutPanel = &panel
	}
	return p
}

// render answers with the page. A local precondition failure is a 422;
// every other workflow failure is part of the page and answers 200.
func render(c echo.Context, ws *workspace.Workspace, p Page, err error) error {
	base := page(ws)
	base.Panel = p.Panel
	base.ResetForm = p.ResetForm
	status := http.StatusOK
	if err != nil {
		base.Error = gateway.Message(err)
		if gateway.IsKind(err, gateway.KindPrecondition) {
			status = http.StatusUnprocessableEntity
		}
	}
	return c.JSON(status, base)
}

// formValues reads a form or JSON key/value body into strings. JSON
// numbers and booleans are kept in their literal form.
func formValues(c echo.Context) (map[string]string, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		raw := map[string]any{}
		dec := json.NewDecoder(req.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
			case string:
				out[k] = t
			default:
				out[k] = fmt.Sprint(t)
			}
		}
		return out, nil
	}
	params, err := c.FormParams()
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	out := make(map[string]string, len(params))
	for k := range params {
		out[k] = params.Get(k)
	}
	return out, nil
}

// bindForm decodes a form into dst, whose fields are all strings tagged
// with their form key.
func bindForm(c echo.Context, dst any) error {
	vals, err := formValues(c)
	if err != nil {
		return err
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
