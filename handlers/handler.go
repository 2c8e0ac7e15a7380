package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"adventure_shop/export"
	"adventure_shop/prompts"
	"adventure_shop/session"
	"adventure_shop/templates"

	"github.com/a-h/templ"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// CookieName carries the session id between requests.
const CookieName = "adventure_session"

// Handler serves the chat UI. Sessions live in Manager and are only changed through Controller.
type Handler struct {
	Controller *session.Controller
	Manager    *session.Manager
	StartHP    int
}

// Routes registers the UI endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /start", h.StartStory)
	mux.HandleFunc("GET /chat", h.Chat)
	mux.HandleFunc("POST /send", h.Generate)
	mux.HandleFunc("POST /home", h.Home)
	mux.HandleFunc("GET /download", h.DownloadStory)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.Index("Adventure Shop", prompts.Catalog))
}

// StartStory replaces any current session with a new one and requests the opening scene.
// A failed start still lands on the chat page, where the error is shown inline.
func (h *Handler) StartStory(w http.ResponseWriter, r *http.Request) {
	theme := strings.TrimSpace(r.FormValue("theme"))
	if theme == "" {
		http.Error(w, "Pick an adventure first.", http.StatusBadRequest)
		return
	}

	if old, ok := h.session(r); ok {
		h.Manager.Delete(old.ID)
	}
	s := h.Controller.NewSession(theme)
	h.Manager.Add(s)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := h.Controller.Start(r.Context(), s, theme); err != nil {
		log.Warn().Err(err).Str("session", s.ID).Msg("failed to start adventure")
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, templates.Chat(s.View(), h.StartHP))
}

// Generate submits the player's message.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	err := h.Controller.Submit(r.Context(), s, r.FormValue("message"))
	if errors.Is(err, session.ErrBusy) {
		http.Error(w, session.UserMessage(err), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// Home discards the session and returns to the catalog.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(r); ok {
		h.Manager.Delete(s.ID)
		log.Info().Str("session", s.ID).Msg("session discarded")
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) DownloadStory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(r)
	if !ok {
		http.Error(w, "No adventure in progress.", http.StatusNotFound)
		return
	}

	v := s.View()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "adventure.pdf"))
	if err := export.TranscriptPDF(w, v.Theme, v.Stats, v.Turns); err != nil {
		log.Error().Err(err).Str("session", s.ID).Msg("failed to export transcript")
	}
}

func (h *Handler) session(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return h.Manager.Get(c.Value)
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
	}
}
