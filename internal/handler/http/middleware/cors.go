package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// OriginValidator decides which browser origins may call the API.
type OriginValidator interface {
	IsAllowed(origin string) bool
	// GetAllowedOrigins returns a copy of the configured origins, for logging.
	GetAllowedOrigins() []string
}

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the preflight cache duration in seconds.
	MaxAge    int
	Validator OriginValidator
	Logger    *slog.Logger
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Requests without an Origin header pass through untouched. Disallowed origins
// get no CORS headers, so the browser blocks the response. Allowed origins are
// echoed back; a preflight OPTIONS request is answered with 204 and never
// reaches next.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")

			if !config.Validator.IsAllowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("remote_addr", r.RemoteAddr))
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)

				logger.Debug("CORS: preflight request",
					slog.String("origin", origin),
					slog.String("requested_method", r.Header.Get("Access-Control-Request-Method")),
					slog.String("requested_headers", r.Header.Get("Access-Control-Request-Headers")))

				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WhitelistValidator allows exact origins, compared case-insensitively and
// ignoring a trailing slash.
type WhitelistValidator struct {
	allowedOrigins []string
}

// NewWhitelistValidator creates a WhitelistValidator; blank entries are dropped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	normalized := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = normalizeOrigin(origin); origin != "" {
			normalized = append(normalized, origin)
		}
	}
	return &WhitelistValidator{allowedOrigins: normalized}
}

// IsAllowed implements OriginValidator.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// GetAllowedOrigins implements OriginValidator.
func (v *WhitelistValidator) GetAllowedOrigins() []string {
	out := make([]string, len(v.allowedOrigins))
	copy(out, v.allowedOrigins)
	return out
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// AllowAllValidator accepts every non-empty origin. It backs the
// CORS_ALLOWED_ORIGINS=* development setting.
type AllowAllValidator struct{}

// IsAllowed implements OriginValidator.
func (AllowAllValidator) IsAllowed(origin string) bool {
	return strings.TrimSpace(origin) != ""
}

// GetAllowedOrigins implements OriginValidator.
func (AllowAllValidator) GetAllowedOrigins() []string {
	return []string{WildcardOrigin}
}
