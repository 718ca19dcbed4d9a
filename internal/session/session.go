// Package session implements the authentication state machine of one
// client workspace: Unauthenticated until a probe, signup or signin
// succeeds, Authenticated(user) until a confirmed logout.
package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/metrics"
	"github.com/iliyamo/utility-ordering-client/internal/model"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/state"
)

// Notice texts.
const (
	MsgSignedUp         = "Account created successfully!"
	MsgSignedIn         = "Signed in successfully!"
	MsgLoggedOut        = "Logged out successfully"
	MsgPasswordMismatch = "Passwords do not match"
	MsgProfileUpdated   = "Profile updated successfully!"
	MsgPasswordChanged  = "Password changed successfully!"
)

// Loader refreshes one list of the workspace. Failures are reported by the
// loader itself; the session never sees them.
type Loader interface {
	Load(ctx context.Context)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context)

func (f LoaderFunc) Load(ctx context.Context) { f(ctx) }

// Manager owns the auth field group of the app state.
type Manager struct {
	log    *zap.SugaredLogger
	api    gateway.Requester
	state  *state.AppState
	notify notify.Notifier

	orders  Loader
	catalog Loader
}

// NewManager wires a Manager. Entering the authenticated state runs orders
// then catalog, sequentially.
func NewManager(api gateway.Requester, st *state.AppState, n notify.Notifier, orders, catalog Loader, log *zap.SugaredLogger) *Manager {
	return &Manager{
		log:     log.Named("session"),
		api:     api,
		state:   st,
		notify:  n,
		orders:  orders,
		catalog: catalog,
	}
}

// SignupForm is the raw signup input. PasswordConfirm is only checked
// locally.
type SignupForm struct {
	Username        string `json:"username" form:"username"`
	MobileNumber    string `json:"mobile_number" form:"mobile_number"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}

// SigninForm is the raw signin input.
type SigninForm struct {
	MobileNumber string `json:"mobile_number" form:"mobile_number"`
	Password     string `json:"password" form:"password"`
}

// Resolve probes the remote session. Any failure leaves the workspace
// unauthenticated without a notice or any load.
func (m *Manager) Resolve(ctx context.Context) bool {
	var user model.User
	if err := m.api.Do(ctx, "/profile/", gateway.Options{Method: http.MethodGet}, &user); err != nil {
		m.log.Debugw("no active session", "error", err)
		m.state.ClearSession()
		metrics.WorkflowResults.WithLabelValues("probe", "error").Inc()
		return false
	}
	metrics.WorkflowResults.WithLabelValues("probe", "ok").Inc()
	m.enter(ctx, user)
	return true
}

// Signup creates an account. A password mismatch is rejected locally with
// no network call.
func (m *Manager) Signup(ctx context.Context, form SignupForm) error {
	if form.Password != form.PasswordConfirm {
		m.notify.Notify(MsgPasswordMismatch, notify.Error)
		metrics.WorkflowResults.WithLabelValues("signup", "precondition").Inc()
		return gateway.Precondition(MsgPasswordMismatch)
	}
	req := model.SignupRequest{
		Username:        form.Username,
		MobileNumber:    form.MobileNumber,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
		Email:           form.Email,
	}
	return m.authenticate(ctx, "signup", "/auth/signup/", req, MsgSignedUp)
}

// Signin starts a session with mobile number and password.
func (m *Manager) Signin(ctx context.Context, form SigninForm) error {
	req := model.SigninRequest{MobileNumber: form.MobileNumber, Password: form.Password}
	return m.authenticate(ctx, "signin", "/auth/signin/", req, MsgSignedIn)
}

func (m *Manager) authenticate(ctx context.Context, workflow, endpoint string, body any, okMsg string) error {
	var resp model.AuthResponse
	err := m.api.Do(ctx, endpoint, gateway.Options{Method: http.MethodPost, Body: body}, &resp)
	metrics.WorkflowResults.WithLabelValues(workflow, metrics.Outcome(err)).Inc()
	if err != nil {
		m.log.Infow("authentication rejected", "workflow", workflow, "error", err)
		m.notify.Notify(gateway.Message(err), notify.Error)
		return err
	}
	m.notify.Notify(okMsg, notify.Success)
	m.enter(ctx, resp.User)
	return nil
}

// Logout ends the remote session. Local state is only cleared once the
// server has confirmed.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.api.Do(ctx, "/auth/signout/", gateway.Options{Method: http.MethodPost}, nil)
	metrics.WorkflowResults.WithLabelValues("logout", metrics.Outcome(err)).Inc()
	if err != nil {
		m.log.Warnw("logout failed", "error", err)
		m.notify.Notify(gateway.Message(err), notify.Error)
		return err
	}
	m.state.ClearSession()
	m.notify.Notify(MsgLoggedOut, notify.Success)
	return nil
}

// UpdateProfile patches the given user fields and replaces the local user
// with the server's answer.
func (m *Manager) UpdateProfile(ctx context.Context, fields model.ProfileUpdate) error {
	var resp model.AuthResponse
	err := m.api.Do(ctx, "/profile/update/", gateway.Options{Method: http.MethodPatch, Body: fields}, &resp)
	metrics.WorkflowResults.WithLabelValues("profile_update", metrics.Outcome(err)).Inc()
	if err != nil {
		m.notify.Notify(gateway.Message(err), notify.Error)
		return err
	}
	m.state.SetUser(resp.User)
	m.notify.Notify(MsgProfileUpdated, notify.Success)
	return nil
}

// ChangePassword rotates the account password. The session stays active.
func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := model.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	err := m.api.Do(ctx, "/profile/change-password/", gateway.Options{Method: http.MethodPost, Body: body}, nil)
	metrics.WorkflowResults.WithLabelValues("password_change", metrics.Outcome(err)).Inc()
	if err != nil {
		m.notify.Notify(gateway.Message(err), notify.Error)
		return err
	}
	m.notify.Notify(MsgPasswordChanged, notify.Success)
	return nil
}

func (m *Manager) enter(ctx context.Context, user model.User) {
	m.state.SetUser(user)
	m.log.Infow("authenticated", "user_id", user.ID, "username", user.Username)
	if m.orders != nil {
		m.orders.Load(ctx)
	}
	if m.catalog != nil {
		m.catalog.Load(ctx)
	}
}
