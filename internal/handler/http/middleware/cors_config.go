package middleware

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"context-summarizer/internal/handler/http/requestid"
)

// WildcardOrigin allows any origin. It is the CORS_ALLOWED_ORIGINS default.
const WildcardOrigin = "*"

// Defaults used when the corresponding variable is unset.
var (
	DefaultCORSMethods = []string{"GET", "POST", "OPTIONS"}
	DefaultCORSHeaders = []string{"Content-Type", requestid.RequestIDHeader, "X-Trace-ID"}
	DefaultCORSExposed = []string{requestid.RequestIDHeader, "X-Trace-ID", "Retry-After"}
)

const defaultCORSMaxAge = 86400

var validCORSMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true, "OPTIONS": true,
}

// ConfigSource supplies the raw CORS settings.
type ConfigSource interface {
	LoadOrigins() ([]string, error)
	LoadMethods() ([]string, error)
	LoadHeaders() ([]string, error)
	LoadMaxAge() (int, error)
}

// EnvConfigSource reads CORS settings from the environment:
//
//	CORS_ALLOWED_ORIGINS=*                                   (default)
//	CORS_ALLOWED_ORIGINS=http://localhost:3000,https://example.com
//	CORS_ALLOWED_METHODS=GET,POST,OPTIONS
//	CORS_ALLOWED_HEADERS=Content-Type,X-Request-ID
//	CORS_MAX_AGE=86400
type EnvConfigSource struct{}

// LoadOrigins returns []string{"*"} when CORS_ALLOWED_ORIGINS is unset or "*".
// Otherwise every entry must be a bare http(s) origin: no path, query, fragment
// or trailing slash.
func (s *EnvConfigSource) LoadOrigins() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" || raw == WildcardOrigin {
		return []string{WildcardOrigin}, nil
	}

	origins := make([]string, 0)
	for _, origin := range splitList(raw) {
		if origin == WildcardOrigin {
			return nil, fmt.Errorf("'*' cannot be combined with other origins")
		}
		if err := validateOrigin(origin); err != nil {
			return nil, err
		}
		origins = append(origins, origin)
	}

	if len(origins) == 0 {
		return nil, fmt.Errorf("at least one valid origin must be configured in CORS_ALLOWED_ORIGINS")
	}
	return origins, nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	case u.Host == "":
		return fmt.Errorf("origin must include a host: %s", origin)
	case strings.HasSuffix(origin, "/"):
		return fmt.Errorf("origin must not have trailing slash: %s", origin)
	case u.Path != "":
		return fmt.Errorf("origin must not include path: %s", origin)
	case u.RawQuery != "":
		return fmt.Errorf("origin must not include query string: %s", origin)
	case u.Fragment != "":
		return fmt.Errorf("origin must not include fragment: %s", origin)
	}
	return nil
}

// LoadMethods reads CORS_ALLOWED_METHODS, defaulting to DefaultCORSMethods.
func (s *EnvConfigSource) LoadMethods() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_METHODS"))
	if raw == "" {
		return append([]string(nil), DefaultCORSMethods...), nil
	}

	methods := make([]string, 0)
	for _, m := range splitList(raw) {
		m = strings.ToUpper(m)
		if !validCORSMethods[m] {
			return nil, fmt.Errorf("invalid HTTP method '%s': must be one of GET, HEAD, POST, PUT, DELETE, PATCH, OPTIONS", m)
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("at least one valid HTTP method must be configured in CORS_ALLOWED_METHODS")
	}
	return methods, nil
}

// LoadHeaders reads CORS_ALLOWED_HEADERS, defaulting to DefaultCORSHeaders.
func (s *EnvConfigSource) LoadHeaders() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_HEADERS"))
	if raw == "" {
		return append([]string(nil), DefaultCORSHeaders...), nil
	}

	headers := splitList(raw)
	if len(headers) == 0 {
		return nil, fmt.Errorf("at least one valid header must be configured in CORS_ALLOWED_HEADERS")
	}
	return headers, nil
}

// LoadMaxAge reads CORS_MAX_AGE in seconds, defaulting to 24 hours.
func (s *EnvConfigSource) LoadMaxAge() (int, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_MAX_AGE"))
	if raw == "" {
		return defaultCORSMaxAge, nil
	}

	maxAge, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid CORS_MAX_AGE '%s': must be a valid integer", raw)
	}
	if maxAge < 0 {
		return 0, fmt.Errorf("CORS_MAX_AGE must be non-negative, got: %d", maxAge)
	}
	return maxAge, nil
}

// LoadCORSConfig loads CORS configuration from the environment.
func LoadCORSConfig(logger *slog.Logger) (*CORSConfig, error) {
	return LoadCORSConfigFromSource(&EnvConfigSource{}, logger)
}

// LoadCORSConfigFromSource builds a CORSConfig from source. A wildcard origin
// list selects AllowAllValidator, anything else a WhitelistValidator.
func LoadCORSConfigFromSource(source ConfigSource, logger *slog.Logger) (*CORSConfig, error) {
	origins, err := source.LoadOrigins()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed origins: %w", err)
	}
	methods, err := source.LoadMethods()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed methods: %w", err)
	}
	headers, err := source.LoadHeaders()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed headers: %w", err)
	}
	maxAge, err := source.LoadMaxAge()
	if err != nil {
		return nil, fmt.Errorf("failed to load max age: %w", err)
	}

	var validator OriginValidator = NewWhitelistValidator(origins)
	if len(origins) == 1 && origins[0] == WildcardOrigin {
		validator = AllowAllValidator{}
	}

	return &CORSConfig{
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   append([]string(nil), DefaultCORSExposed...),
		AllowCredentials: true,
		MaxAge:           maxAge,
		Validator:        validator,
		Logger:           logger,
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
