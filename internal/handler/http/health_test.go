package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelyaev/accountd/models"
)

// TestHealth_ReportsVersion verifies that the health endpoint answers with
// the running build's status and version.
func TestHealth_ReportsVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status models.HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "test-version", status.Version)
}
