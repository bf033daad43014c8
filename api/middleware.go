package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/garnizeh/workshop/internal/auth"
	"github.com/gorilla/mux"
)

type ctxKey string

const CtxUser ctxKey = "user"

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// UserFromContext returns the token claims stored by JWTAuthMiddleware.
func UserFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(CtxUser).(*auth.Claims)
	return c, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err), slog.String("path", r.URL.Path))
				writeError(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// JWTAuthMiddleware rejects requests without a token (401) or with a token
// that is not a valid bearer token (403). The scheme is matched
// case-insensitively. Valid claims are stored under CtxUser.
func JWTAuthMiddleware(issuer *auth.TokenIssuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, tokenString, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			tokenString = strings.TrimSpace(tokenString)

			if tokenString == "" {
				writeError(w, "Access denied. No token provided.", http.StatusUnauthorized)
				return
			}

			if !strings.EqualFold(scheme, "Bearer") {
				logger.Debug("unsupported authorization scheme", slog.String("scheme", scheme))
				writeError(w, "Invalid token.", http.StatusForbidden)
				return
			}

			claims, err := issuer.Parse(tokenString)
			if err != nil {
				logger.Debug("token rejected", slog.Any("err", err))
				writeError(w, "Invalid token.", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
