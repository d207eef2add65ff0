package middleware

import (
	"fmt"
	"net/http"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/responses"
	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
