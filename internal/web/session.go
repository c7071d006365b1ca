package web

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/dataclean/internal/config"
	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/logging"
	"github.com/JonMunkholm/dataclean/internal/session"
	"github.com/JonMunkholm/dataclean/internal/web/templates"
)

const (
	cookieName   = "dataclean"
	sessionIDKey = "sid"
)

func newCookieStore(cfg config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// cookie returns the browser session. A cookie that fails to decode, for
// example after a secret rotation, yields a fresh session.
func (s *Server) cookie(r *http.Request) *sessions.Session {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		logging.FromContext(r.Context()).Debug("discarding unreadable session cookie", "error", err)
	}
	return sess
}

func sessionID(sess *sessions.Session) string {
	id, _ := sess.Values[sessionIDKey].(string)
	return id
}

// workspace resolves the caller's workspace from the cookie.
func (s *Server) workspace(r *http.Request) (*core.Workspace, error) {
	id := sessionID(s.cookie(r))
	if id == "" {
		return nil, session.ErrSessionNotFound
	}
	return s.sessions.Get(id)
}

// freshWorkspace returns an empty workspace for a new upload. A live session
// keeps its id and has its workspace replaced; otherwise a new session is
// created and its id written to the cookie.
func (s *Server) freshWorkspace(w http.ResponseWriter, r *http.Request) (*core.Workspace, error) {
	sess := s.cookie(r)
	if id := sessionID(sess); id != "" {
		ws, err := s.sessions.Replace(id)
		if err == nil {
			return ws, nil
		}
	}

	ws, err := s.sessions.Create()
	if err != nil {
		return nil, err
	}
	sess.Values[sessionIDKey] = ws.ID()
	if err := sess.Save(r, w); err != nil {
		s.sessions.Delete(ws.ID())
		return nil, err
	}
	return ws, nil
}

// flash queues a notice for the next page render and saves the cookie.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, n templates.Notice) {
	sess := s.cookie(r)
	sess.AddFlash(n.Message, n.Level)
	if err := sess.Save(r, w); err != nil {
		logging.FromContext(r.Context()).Warn("saving flash failed", "error", err)
	}
}

// takeFlashes drains queued notices in level order.
func (s *Server) takeFlashes(w http.ResponseWriter, r *http.Request) []templates.Notice {
	sess := s.cookie(r)
	var out []templates.Notice
	for _, level := range []string{templates.LevelError, templates.LevelWarning, templates.LevelSuccess, templates.LevelInfo} {
		for _, f := range sess.Flashes(level) {
			if msg, ok := f.(string); ok {
				out = append(out, templates.Notice{Level: level, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			logging.FromContext(r.Context()).Warn("clearing flashes failed", "error", err)
		}
	}
	return out
}
