package server

import "net/http"

// SecurityConfig controls the headers added to every response.
type SecurityConfig struct {
	// AllowedMethods lists the methods the endpoint answers; others get 405.
	AllowedMethods []string
	// NoStore disables caching of metric scrapes.
	NoStore bool
	// RequestsPerMinute caps requests per client IP. Zero disables the limit.
	RequestsPerMinute int
}

// DefaultSecurityConfig allows read-only access.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AllowedMethods:    []string{http.MethodGet, http.MethodHead},
		NoStore:           true,
		RequestsPerMinute: 120,
	}
}

// SecurityMiddleware sets defensive response headers and refuses methods
// outside config.AllowedMethods.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if config.NoStore {
			h.Set("Cache-Control", "no-store")
		}

		if !methodAllowed(config.AllowedMethods, r.Method) {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func methodAllowed(allowed []string, method string) bool {
	for _, m := range allowed {
		if m == method {
			return true
		}
	}
	return false
}
