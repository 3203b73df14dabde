// Package site serves the server-rendered dashboard. Every interaction is a
// form post that updates the viewer's session and redirects back to the page.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/qaportal/internal/adapters/http/api"
	"github.com/okian/qaportal/internal/adapters/repository"
	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/internal/dashboard"
	"github.com/okian/qaportal/internal/domain/model"
	"github.com/okian/qaportal/internal/session"
	"github.com/okian/qaportal/pkg/logger"
)

// DefaultCookie names the session cookie when none is configured.
const DefaultCookie = "qaportal_session"

const maxFormBytes = 64 << 10

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must( //nolint:gochecknoglobals // parsed once at init
	template.New("dashboard.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html"),
)

// Dependencies are the session operations behind the dashboard.
type Dependencies interface {
	Session(ctx context.Context, id string) (*session.Session, error)
	Page(ctx context.Context, sess *session.Session, tab dashboard.Tab) (dashboard.Page, error)
	Select(ctx context.Context, sess *session.Session, agentID string) (model.Agent, error)
	ToggleSelector(ctx context.Context, sess *session.Session) bool
	ToggleReply(ctx context.Context, sess *session.Session, commentID string) (bool, error)
	UpdateDraft(ctx context.Context, sess *session.Session, commentID, text string) error
	SubmitReply(ctx context.Context, sess *session.Session, commentID string, text *string) (model.Response, error)
}

// Handler renders the dashboard and applies form posts.
type Handler struct {
	deps      Dependencies
	cookie    string
	cookieTTL time.Duration
	logger    logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.cookie = name
		}
	}
}

// WithCookieTTL sets the session cookie's Max-Age. Zero makes it a browser
// session cookie.
func WithCookieTTL(ttl time.Duration) Option {
	return func(h *Handler) {
		if ttl >= 0 {
			h.cookieTTL = ttl
		}
	}
}

// WithLogger sets the handler's logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a dashboard handler.
func NewHandler(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{deps: deps, cookie: DefaultCookie, logger: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the dashboard routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(h.HandlePage, "page"))
	mux.HandleFunc("POST /select", api.MetricsMiddleware(h.HandleSelect, "select"))
	mux.HandleFunc("POST /selector/toggle", api.MetricsMiddleware(h.HandleToggleSelector, "selector_toggle"))
	mux.HandleFunc("POST /comments/{id}/reply/toggle", api.MetricsMiddleware(h.HandleToggleReply, "reply_toggle"))
	mux.HandleFunc("POST /comments/{id}/draft", api.MetricsMiddleware(h.HandleDraft, "reply_draft"))
	mux.HandleFunc("POST /comments/{id}/reply", api.MetricsMiddleware(h.HandleSubmitReply, "reply_submit"))
}

// HandlePage handles GET /. The QA tab is chosen with ?tab=.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	page, err := h.deps.Page(r.Context(), sess, dashboard.ParseTab(r.URL.Query().Get("tab")))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// HandleSelect handles POST /select with form field agent_id.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.formSession(w, r)
	if !ok {
		return
	}
	if _, err := h.deps.Select(r.Context(), sess, r.PostForm.Get("agent_id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.back(w, r)
}

// HandleToggleSelector handles POST /selector/toggle.
func (h *Handler) HandleToggleSelector(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.formSession(w, r)
	if !ok {
		return
	}
	h.deps.ToggleSelector(r.Context(), sess)
	h.back(w, r)
}

// HandleToggleReply handles POST /comments/{id}/reply/toggle.
func (h *Handler) HandleToggleReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.formSession(w, r)
	if !ok {
		return
	}
	if _, err := h.deps.ToggleReply(r.Context(), sess, r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.back(w, r)
}

// HandleDraft handles POST /comments/{id}/draft with form field content,
// keeping the text without sending it.
func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.formSession(w, r)
	if !ok {
		return
	}
	if err := h.deps.UpdateDraft(r.Context(), sess, r.PathValue("id"), r.PostForm.Get("content")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.back(w, r)
}

// HandleSubmitReply handles POST /comments/{id}/reply. The reply is discarded
// and its box closed; an empty reply just closes the box.
func (h *Handler) HandleSubmitReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.formSession(w, r)
	if !ok {
		return
	}
	var text *string
	if r.PostForm.Has("content") {
		v := r.PostForm.Get("content")
		text = &v
	}
	_, err := h.deps.SubmitReply(r.Context(), sess, r.PathValue("id"), text)
	if err != nil && !errors.Is(err, service.ErrEmptyReply) {
		h.fail(w, r, err)
		return
	}
	h.back(w, r)
}

// session resolves the viewer session from the cookie, issuing a new cookie
// whenever the session was (re)created.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	var id string
	if c, err := r.Cookie(h.cookie); err == nil {
		id = c.Value
	}
	sess, err := h.deps.Session(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if sess.ID != id {
		c := &http.Cookie{
			Name:     h.cookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if h.cookieTTL > 0 {
			c.MaxAge = int(h.cookieTTL.Seconds())
		}
		http.SetCookie(w, c)
	}
	return sess, true
}

func (h *Handler) formSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return nil, false
	}
	return h.session(w, r)
}

// back redirects to the dashboard, keeping the active QA tab.
func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if tab := r.PostForm.Get("tab"); tab != "" {
		target += "?" + url.Values{"tab": {string(dashboard.ParseTab(tab))}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrAgentNotFound), errors.Is(err, repository.ErrCommentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrReplyTooLong):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotStarted):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error(r.Context(), "dashboard request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
