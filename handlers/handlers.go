package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-pkgz/auth/v2/token"
)

// jsonError writes a JSON error payload with the given status.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonResponse writes v as a JSON body with the given status.
func jsonResponse(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestUserID extracts the authenticated user's opaque id from the
// request token. Routes calling this sit behind the auth middleware, so a
// missing token means the middleware was bypassed, not a user error.
func requestUserID(r *http.Request) (string, bool) {
	user, err := token.GetUserInfo(r)
	if err != nil || user.ID == "" {
		return "", false
	}
	return user.ID, true
}
