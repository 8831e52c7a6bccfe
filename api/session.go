package api

import (
	"context"
	"net/http"
	"strings"
)

// SessionHeader lets clients carry the chat session outside the JSON body.
const SessionHeader = "X-Session-ID"

// ContextKey is the type used for context keys.
type ContextKey string

// ContextKeySessionID is the key for the chat session id in the context.
const ContextKeySessionID ContextKey = "sessionID"

const maxSessionIDLen = 128

// SessionMiddleware copies a well-formed X-Session-ID header into the request
// context.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id != "" && len(id) <= maxSessionIDLen {
			r = r.WithContext(context.WithValue(r.Context(), ContextKeySessionID, id))
		}
		next.ServeHTTP(w, r)
	})
}

// SessionID retrieves the session id placed by SessionMiddleware.
func SessionID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeySessionID).(string); ok {
		return id
	}
	return ""
}
