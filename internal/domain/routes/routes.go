package routes

// Package routes holds the public-route allowlist shared by the session store
// and the route guard. A route on this list never requires the client to
// contact the backend before rendering. This is a cost-saving rule only; the
// backend still enforces authorization on every call.

import "strings"

// Public paths matched exactly after trailing-slash normalization.
var exactPublic = map[string]struct{}{
	"/login":           {},
	"/register":        {},
	"/forgot-password": {},
	"/unauthorized":    {},
	"/doctors":         {},
	"/payment-success": {},
	"/payment-cancel":  {},
}

// Public path prefixes. Reset-password links carry uid/token path segments.
var prefixPublic = []string{
	"/reset-password",
}

// IsPublic reports whether path belongs to the public-route allowlist.
// The root path is not public: it is expected to redirect based on role.
func IsPublic(path string) bool {
	p := normalize(path)
	if _, ok := exactPublic[p]; ok {
		return true
	}
	for _, prefix := range prefixPublic {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
