package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla"
	"github.com/goliatone/go-onboarding/pkg/submission"
)

const (
	statusPath = "/register/status"
	eventsPath = "/register/events"
)

var placeholderPages = map[string]string{
	"/login":          "Staff Login",
	"/reset-password": "Reset Password",
	"/referral":       "Submit a Referral",
	"/dashboard":      "Dashboard",
}

// statusView is the JSON shape of /register/status and of every event frame.
type statusView struct {
	State   form.State        `json:"state"`
	Busy    bool              `json:"busy"`
	Errors  map[string]string `json:"errors,omitempty"`
	Failure string            `json:"failure,omitempty"`
	Version uint64            `json:"version"`
}

func newStatusView(view form.View) statusView {
	return statusView{
		State:   view.State,
		Busy:    view.Busy(),
		Errors:  view.Errors.Messages(),
		Failure: view.FailureMessage(),
		Version: view.Version,
	}
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, vanilla.PageLanding, vanilla.PageData{})
}

func (s *Server) handlePlaceholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writePage(w, r, http.StatusOK, vanilla.PagePlaceholder, vanilla.PageData{
			Title:   title,
			Message: "This page is under construction.",
		})
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusNotFound, vanilla.PageNotFound, vanilla.PageData{
		Title:   "Page Not Found",
		Message: "The page you are looking for does not exist.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleContract(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.contract)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	session, err := s.ensureSession(w, r)
	if err != nil {
		s.logger.Error("open session", "error", err)
		http.Error(w, "unable to start a session", http.StatusInternalServerError)
		return
	}

	view := session.Controller.View()
	if view.State == form.StateSucceeded {
		s.writeSuccess(w, r)
		return
	}
	s.writeForm(w, r, http.StatusOK, session, view)
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	session, ok := s.sessionFor(r)
	if !ok || !render.CSRFMatches(session.CSRF, r.PostForm.Get(render.DefaultCSRFField)) {
		s.logger.Warn("registration rejected", "reason", "csrf", "session_found", ok)
		http.Error(w, "invalid or expired session", http.StatusForbidden)
		return
	}

	c := session.Controller
	switch c.State() {
	case form.StateSubmitting:
		s.writeForm(w, r, http.StatusConflict, session, c.View())
		return
	case form.StateSucceeded:
		s.writeSuccess(w, r)
		return
	}

	if err := applyPostedFields(c, r); err != nil {
		s.logger.Error("apply posted fields", "error", err)
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	err := c.Submit(r.Context())
	switch {
	case errors.Is(err, form.ErrInvalid):
		s.writeForm(w, r, http.StatusUnprocessableEntity, session, c.View())
	case errors.Is(err, form.ErrSubmitInFlight):
		s.writeForm(w, r, http.StatusConflict, session, c.View())
	case errors.Is(err, form.ErrCompleted):
		s.writeSuccess(w, r)
	case err != nil:
		s.logger.Error("submit registration", "error", err)
		http.Error(w, "unable to submit registration", http.StatusInternalServerError)
	default:
		view := c.View()
		if view.State == form.StateSucceeded {
			s.writeSuccess(w, r)
			return
		}
		s.writeForm(w, r, http.StatusAccepted, session, view)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFor(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, newStatusView(session.Controller.View()))
}

// applyPostedFields copies every posted registration field into c. An absent
// checkbox means false.
func applyPostedFields(c *form.Controller, r *http.Request) error {
	for _, name := range model.AllFields() {
		key := string(name)
		if name.Kind() == model.FieldKindBoolean {
			if err := c.SetField(name, checkboxValue(r.PostForm.Get(key))); err != nil {
				return err
			}
			continue
		}
		if _, posted := r.PostForm[key]; !posted && name.Kind() != model.FieldKindSecret {
			continue
		}
		if err := c.SetText(name, r.PostForm.Get(key)); err != nil {
			return err
		}
	}
	return nil
}

func checkboxValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// renderOptions builds the per-request state of the registration page from a
// controller view. Remote field errors from a failed submission are shown
// inline next to the matching control.
func (s *Server) renderOptions(session *Session, view form.View) render.RenderOptions {
	options := render.RenderOptions{
		Values:  make(map[string]string),
		Checked: make(map[string]bool),
		Errors:  view.Errors.Messages(),
		Hidden:  []render.HiddenField{render.CSRFToken("", session.CSRF)},
		Busy:    view.Busy(),
	}
	for _, name := range model.AllFields() {
		switch name.Kind() {
		case model.FieldKindSecret:
		case model.FieldKindBoolean:
			if view.Fields.AgreeToTerms {
				options.Checked[string(name)] = true
			}
		default:
			options.Values[string(name)] = view.Fields.Text(name)
		}
	}
	if options.Busy {
		options.StatusURL = statusPath
		options.EventsURL = eventsPath
	}

	if view.State == form.StateFailed && view.Failure != nil {
		var remote *submission.RemoteError
		if errors.As(view.Failure, &remote) && !remote.Mapping.Empty() {
			if options.Errors == nil {
				options.Errors = make(map[string]string)
			}
			for name, message := range remote.Mapping.FieldMessages() {
				if _, exists := options.Errors[string(name)]; !exists {
					options.Errors[string(name)] = message
				}
			}
			options.FormErrors = render.MergeFormErrors([]string{"Registration failed."}, remote.Mapping.Form...)
		} else {
			options.FormErrors = []string{"Registration failed: " + view.FailureMessage()}
		}
	}
	return options
}

func (s *Server) writeForm(w http.ResponseWriter, r *http.Request, status int, session *Session, view form.View) {
	renderer, err := s.renderers.Negotiate(r.Header.Get("Accept"), s.html.Name())
	if err != nil {
		s.logger.Error("negotiate renderer", "error", err)
		http.Error(w, "no renderer available", http.StatusInternalServerError)
		return
	}
	body, err := renderer.Render(r.Context(), s.layout, s.renderOptions(session, view))
	if err != nil {
		s.logger.Error("render registration form", "renderer", renderer.Name(), "error", err)
		http.Error(w, "unable to render form", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Add("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeSuccess(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, vanilla.PageSuccess, vanilla.PageData{
		Title:   "Account Created",
		Message: "Your free trial has started. We have sent the next steps to your email address.",
	})
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page vanilla.Page, data vanilla.PageData) {
	body, err := s.html.RenderPage(r.Context(), page, data)
	if err != nil {
		s.logger.Error("render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) sessionFor(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(cookie.Value)
}

func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if session, ok := s.sessionFor(r); ok {
		return session, nil
	}
	session, err := s.sessions.Create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return session, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
