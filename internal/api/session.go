package api

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader identifies the anonymous browsing session. The storefront
// has no accounts; carts and selections hang off this header instead.
const SessionHeader = "X-Session-ID"

// getSessionID returns the request's session id, minting one for clients
// that arrive without it. The minted id is echoed back so the client can
// hold onto it.
func getSessionID(w http.ResponseWriter, r *http.Request) string {
	if sessionID := r.Header.Get(SessionHeader); sessionID != "" {
		return sessionID
	}

	sessionID := uuid.New().String()
	w.Header().Set(SessionHeader, sessionID)
	return sessionID
}
