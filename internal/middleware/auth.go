package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fareaz/eTuitionBd-Server/internal/auth"
	"github.com/fareaz/eTuitionBd-Server/internal/ctxdata"
	"github.com/fareaz/eTuitionBd-Server/internal/logging"
)

// NewAuthMiddleware verifies the bearer credential and puts the
// subject email on the context. Role resolution stays with the
// services; an identity is not a role.
func NewAuthMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "no authorization header", zap.String("path", r.URL.Path))
				}
				writeUnauthorized(w)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			if token == "" {
				writeUnauthorized(w)
				return
			}

			email, err := verifier.Verify(ctx, token)
			if err != nil {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "credential verification failed",
						zap.String("path", r.URL.Path),
						zap.Error(err),
					)
				}
				writeUnauthorized(w)
				return
			}

			r = r.WithContext(ctxdata.WithUserEmail(ctx, email))
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp, _ := json.Marshal(map[string]string{"message": "unauthorized access"})
	w.Write(resp)
}
