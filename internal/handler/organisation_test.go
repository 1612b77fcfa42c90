package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arkology/forgetme/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleList(t *testing.T) {
	h := NewOrganisationHandler(registry.New(), slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/organisations", nil)
	rec := httptest.NewRecorder()

	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.RequestTypes, 3)
	assert.Len(t, resp.Reasons, 3)
	require.NotEmpty(t, resp.Organisations)

	slugs := make(map[string]bool)
	for _, org := range resp.Organisations {
		slugs[org.Slug] = true
		assert.NotEmpty(t, org.Name)
		assert.NotEmpty(t, org.Email)
	}
	assert.True(t, slugs["openai"])
	assert.True(t, slugs["anthropic"])
}
