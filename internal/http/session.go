package http

import (
	"context"
	"net/http"

	"budget/internal/log"
	"budget/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "budget_session"

type sessionKey struct{}

// withSession resolves the caller's session, creating one and setting the
// cookie when the request carries no live session.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		sess, created := s.sessions.GetOrCreate(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldSessionID, sess.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
