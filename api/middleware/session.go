package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

// SessionCookieName holds the anonymous shopper id.
const SessionCookieName = "mfg_session"

type SessionOptions struct {
	Secure bool
	MaxAge time.Duration
}

// Session resolves the shopper's cart session from its cookie, issuing a new
// one when the cookie is missing or not a uuid.
func Session(opts SessionOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(SessionCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					sessionID = parsed.String()
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(opts.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
