package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/logging"
)

// SessionHeader lets API clients without a cookie jar name their session.
const SessionHeader = "X-Session-ID"

type sessionKey struct{}

// withSession resolves the caller's result session from the header or the
// session cookie, creating one when neither names a live session. Every
// response re-issues the cookie so it lives as long as the session does.
// The session, its ID for logging and the client details travel in the
// context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
				id = c.Value
			}
		}

		sess, _ := s.service.Sessions().GetOrCreate(id)

		// The store's TTL restarts on every use, so the cookie is refreshed
		// with it.
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.Session.CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(s.cfg.Session.TTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set(SessionHeader, sess.ID)

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = logging.ContextWithSession(ctx, sess.ID)
		ctx = core.ContextWithClient(ctx, clientIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(r *http.Request) *core.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*core.Session)
	return sess
}
