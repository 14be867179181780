package auth

import (
	"net/http"
	"strings"
)

// ExtractAccessToken returns the bearer token of r's Authorization header,
// or "" when it carries none.
func ExtractAccessToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
