package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_Defaults(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Zero(t, rw.BytesWritten())
	assert.False(t, rw.Written())
}

func TestWrap_Idempotent(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())

	assert.Same(t, rw, Wrap(rw))
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	rw.WriteHeader(http.StatusBadRequest)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusBadRequest, rw.StatusCode())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, rw.Written())
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	n, err := rw.Write([]byte(`{"summary":"ok"}`))
	assert.NoError(t, err)
	assert.Equal(t, 16, n)

	_, _ = rw.Write([]byte("\n"))

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, 17, rw.BytesWritten())
	assert.Equal(t, "{\"summary\":\"ok\"}\n", rec.Body.String())
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()

	assert.Same(t, rec, Wrap(rec).Unwrap())
}

func TestResponseWriter_ResponseController(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	err := http.NewResponseController(rw).Flush()

	assert.NoError(t, err)
	assert.True(t, rec.Flushed)
}
