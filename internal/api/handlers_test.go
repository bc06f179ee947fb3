package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/household-calculator/internal/calculation"
	"github.com/lifeplan/household-calculator/internal/config"
	"github.com/lifeplan/household-calculator/internal/domain"
	"github.com/lifeplan/household-calculator/internal/store"
)

func newTestServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()
	var st *store.Store
	if withStore {
		var err error
		st, err = store.New(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
	}
	srv := httptest.NewServer(NewRouter(NewHandler(calculation.NewEngine(), st)))
	t.Cleanup(srv.Close)
	return srv
}

func exampleJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(config.NewInputParser().CreateExampleConfiguration())
	require.NoError(t, err)
	return data
}

func TestRunProjection(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/api/projection", "application/json", bytes.NewReader(exampleJSON(t)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ProjectionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Entries, 56)
	assert.NotEmpty(t, result.WealthType.Code)
}

func TestRunProjectionRejectsInvalidConfig(t *testing.T) {
	srv := newTestServer(t, false)

	cfg := config.NewInputParser().CreateExampleConfiguration()
	cfg.Person.Role = domain.RoleChild
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/projection", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "person.role", body.Field)
}

func TestConfigsRequireStore(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/api/configs/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestConfigRoundTrip(t *testing.T) {
	srv := newTestServer(t, true)
	client := srv.Client()
	payload := exampleJSON(t)

	put := func(name string, body []byte) *http.Response {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/configs/"+name, bytes.NewReader(body))
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := put("required-life-data", payload)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Stored block comes back verbatim and projects on demand.
	resp, err := http.Get(srv.URL + "/api/configs/required-life-data")
	require.NoError(t, err)
	var stored domain.Configuration
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	resp.Body.Close()
	assert.Equal(t, "Wei", stored.Person.Name)

	resp, err = http.Post(srv.URL+"/api/configs/required-life-data/projection", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result domain.ProjectionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	assert.Len(t, result.Entries, 56)

	// Invalid payloads never reach the store.
	resp = put("broken", []byte(`{"person":{"birth_year":1}}`))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete, then the block is gone.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/configs/required-life-data", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/configs/required-life-data")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
