package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// withGZip middleware
// ─────────────────────────────────────────────

// TestWithGZip_CompressesWhenAccepted verifies that a client advertising
// gzip support receives a compressed body that inflates back to the
// original payload.
func TestWithGZip_CompressesWhenAccepted(t *testing.T) {
	payload := `{"status":"ok","version":"test-version"}`
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(payload))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	defer gz.Close()

	inflated, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, payload, string(inflated))
}

// TestWithGZip_PassthroughWhenNotAccepted verifies that a client without
// gzip support receives the body untouched.
func TestWithGZip_PassthroughWhenNotAccepted(t *testing.T) {
	payload := `{"status":"ok"}`
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, rec.Body.String())
}
