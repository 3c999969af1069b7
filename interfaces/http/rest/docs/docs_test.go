package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecJSON_DescribesEveryRoute(t *testing.T) {
	raw, err := SpecJSON()
	require.NoError(t, err)

	var spec struct {
		OpenAPI string                            `json:"openapi"`
		Paths   map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &spec))

	assert.Equal(t, "3.1.0", spec.OpenAPI)
	assert.Contains(t, spec.Paths["/"], "get")
	assert.Contains(t, spec.Paths["/educate"], "post")
	assert.Contains(t, spec.Paths["/graph"], "get")
	assert.Contains(t, spec.Paths["/health"], "get")
	assert.Contains(t, spec.Paths["/ready"], "get")
}

func TestSpecHandler_ContentNegotiation(t *testing.T) {
	h, err := SpecHandler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, SpecPath, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, json.Valid(rec.Body.Bytes()))

	req := httptest.NewRequest(http.MethodGet, SpecPath, nil)
	req.Header.Set("Accept", "application/yaml")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.1.0")
}
