package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"editor-note/internal/auth"
	"editor-note/internal/contextutil"
	"editor-note/internal/storage"
)

// TokenCookie is the cookie Authenticate reads when no Authorization
// header is sent.
const TokenCookie = "editor_note_token"

// LoggerMiddleware adds a structured logger to the request context.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default().With(
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		ctx := contextutil.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// responseWriter records the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs status and duration of each request. Successful
// health checks are not logged.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		if r.URL.Path == healthPath && rw.statusCode == http.StatusOK {
			return
		}
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "request completed",
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// CORS adds CORS headers to allow cross-origin requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TokenParser verifies an access token.
type TokenParser interface {
	Parse(token string) (*auth.Principal, error)
}

// UserLookup loads the stored account a token was issued to.
type UserLookup interface {
	GetByLogin(ctx context.Context, login string) (*storage.UserRecord, error)
}

// Authenticate resolves the request's principal from a bearer token or
// the token cookie. Requests without a token continue anonymously; an
// invalid token, or one whose user no longer exists, is rejected with 401.
// Capabilities come from the stored user, so revoking one takes effect on
// the next request rather than when the token expires.
func Authenticate(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := requestToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := tokens.Parse(raw)
			if err != nil {
				level := slog.LevelWarn
				if !errors.Is(err, auth.ErrInvalidToken) {
					level = slog.LevelError
				}
				contextutil.LoggerFromContext(ctx).Log(ctx, level, "authentication failed", "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer realm="editor-note"`)
				writeUnauthorized(w)
				return
			}

			user, err := users.GetByLogin(ctx, claims.Login)
			if errors.Is(err, storage.ErrNotFound) {
				contextutil.LoggerFromContext(ctx).WarnContext(ctx, "token for unknown user", "login", claims.Login)
				w.Header().Set("WWW-Authenticate", `Bearer realm="editor-note"`)
				writeUnauthorized(w)
				return
			}
			if err != nil {
				contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load token user", "login", claims.Login, "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Failed to authenticate"}` + "\n"))
				return
			}
			principal := &auth.Principal{
				UserID:       user.ID,
				Login:        user.Login,
				Name:         user.DisplayName,
				Capabilities: user.Capabilities,
			}

			logger := contextutil.LoggerFromContext(ctx).With("user", principal.Login)
			ctx = contextutil.WithLogger(auth.WithPrincipal(ctx, principal), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}` + "\n"))
}
