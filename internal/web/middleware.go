package web

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MockAuthMiddleware simulates session authentication (replace with real JWT
// validation). The identity email feeds the owned-order lookup.
func MockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get("X-Demo-Email")
		if email == "" {
			email = "demo@shopstream.dev"
		}

		ctx := context.WithValue(r.Context(), "identity_email", email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware scopes the cart and checkout wizard to a client session.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			sessionID = fmt.Sprintf("anon-%d", time.Now().UnixNano())
			w.Header().Set("X-Session-ID", sessionID)
		}

		ctx := context.WithValue(r.Context(), "session_id", sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getSessionID(ctx context.Context) string {
	if v, ok := ctx.Value("session_id").(string); ok {
		return v
	}
	return ""
}

func getIdentityEmail(ctx context.Context) string {
	if v, ok := ctx.Value("identity_email").(string); ok {
		return v
	}
	return ""
}
