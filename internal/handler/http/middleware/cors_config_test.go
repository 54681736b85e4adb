package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCORSEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_METHODS", "CORS_ALLOWED_HEADERS", "CORS_MAX_AGE"} {
		t.Setenv(key, "")
	}
}

func TestEnvConfigSource_LoadOrigins(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []string
		wantErr string
	}{
		{name: "unset defaults to wildcard", value: "", want: []string{"*"}},
		{name: "explicit wildcard", value: " * ", want: []string{"*"}},
		{name: "list", value: "http://localhost:3000, https://example.com", want: []string{"http://localhost:3000", "https://example.com"}},
		{name: "port and IPv6", value: "http://[::1]:8080", want: []string{"http://[::1]:8080"}},
		{name: "wildcard mixed with origins", value: "*,http://localhost:3000", wantErr: "cannot be combined"},
		{name: "bad scheme", value: "ftp://example.com", wantErr: "http or https"},
		{name: "no host", value: "http://", wantErr: "must include a host"},
		{name: "trailing slash", value: "https://example.com/", wantErr: "trailing slash"},
		{name: "path", value: "https://example.com/app", wantErr: "must not include path"},
		{name: "query", value: "https://example.com?x=1", wantErr: "query string"},
		{name: "only separators", value: " , ", wantErr: "at least one valid origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCORSEnv(t)
			t.Setenv("CORS_ALLOWED_ORIGINS", tt.value)

			got, err := (&EnvConfigSource{}).LoadOrigins()

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvConfigSource_LoadMethods(t *testing.T) {
	clearCORSEnv(t)
	src := &EnvConfigSource{}

	got, err := src.LoadMethods()
	require.NoError(t, err)
	assert.Equal(t, DefaultCORSMethods, got)

	t.Setenv("CORS_ALLOWED_METHODS", "get, post ,")
	got, err = src.LoadMethods()
	require.NoError(t, err)
	assert.Equal(t, []string{"GET", "POST"}, got)

	t.Setenv("CORS_ALLOWED_METHODS", "GET,TRACE")
	_, err = src.LoadMethods()
	assert.ErrorContains(t, err, "invalid HTTP method 'TRACE'")

	t.Setenv("CORS_ALLOWED_METHODS", " , ")
	_, err = src.LoadMethods()
	assert.ErrorContains(t, err, "at least one valid HTTP method")
}

func TestEnvConfigSource_LoadHeaders(t *testing.T) {
	clearCORSEnv(t)
	src := &EnvConfigSource{}

	got, err := src.LoadHeaders()
	require.NoError(t, err)
	assert.Equal(t, DefaultCORSHeaders, got)

	t.Setenv("CORS_ALLOWED_HEADERS", "Content-Type, X-Custom")
	got, err = src.LoadHeaders()
	require.NoError(t, err)
	assert.Equal(t, []string{"Content-Type", "X-Custom"}, got)

	t.Setenv("CORS_ALLOWED_HEADERS", ",")
	_, err = src.LoadHeaders()
	assert.Error(t, err)
}

func TestEnvConfigSource_LoadMaxAge(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", 86400, false},
		{"0", 0, false},
		{"3600", 3600, false},
		{"abc", 0, true},
		{"-1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearCORSEnv(t)
			t.Setenv("CORS_MAX_AGE", tt.value)

			got, err := (&EnvConfigSource{}).LoadMaxAge()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCORSConfig_Defaults(t *testing.T) {
	clearCORSEnv(t)

	cfg, err := LoadCORSConfig(nil)

	require.NoError(t, err)
	assert.IsType(t, AllowAllValidator{}, cfg.Validator)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 86400, cfg.MaxAge)
	assert.Equal(t, DefaultCORSExposed, cfg.ExposedHeaders)
}

func TestLoadCORSConfig_Whitelist(t *testing.T) {
	clearCORSEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := LoadCORSConfig(nil)

	require.NoError(t, err)
	require.IsType(t, &WhitelistValidator{}, cfg.Validator)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Validator.GetAllowedOrigins())
}

type failingSource struct {
	EnvConfigSource
	failOn string
}

func (f *failingSource) LoadOrigins() ([]string, error) {
	if f.failOn == "origins" {
		return nil, errors.New("boom")
	}
	return []string{"*"}, nil
}

func (f *failingSource) LoadMaxAge() (int, error) {
	if f.failOn == "maxage" {
		return 0, errors.New("boom")
	}
	return 10, nil
}

func TestLoadCORSConfigFromSource_Errors(t *testing.T) {
	clearCORSEnv(t)

	_, err := LoadCORSConfigFromSource(&failingSource{failOn: "origins"}, nil)
	assert.ErrorContains(t, err, "failed to load allowed origins")

	_, err = LoadCORSConfigFromSource(&failingSource{failOn: "maxage"}, nil)
	assert.ErrorContains(t, err, "failed to load max age")

	cfg, err := LoadCORSConfigFromSource(&failingSource{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxAge)
}
