package cli

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerPath(t *testing.T) {
	assert.Equal(t, "/api/v1/players/7656", playerPath("7656"))
	assert.Equal(t, "/api/v1/players/7656/flags/a%2Fb", playerPath("7656", "flags", "a/b"))
}

func TestWithQueryDropsEmptyValues(t *testing.T) {
	q := url.Values{}
	q.Set("username", "")
	assert.Equal(t, "/api/v1/audit", withQuery("/api/v1/audit", q))

	q = url.Values{}
	q.Set("username", "admin")
	q.Set("limit", "")
	assert.Equal(t, "/api/v1/audit?username=admin", withQuery("/api/v1/audit", q))
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"NO_OPEN_SESSION","message":"No open session to end"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	err := c.Post("/api/v1/players/1/sessions/end", map[string]any{}, nil)
	require.Error(t, err)
	assert.Equal(t, "No open session to end (NO_OPEN_SESSION)", err.Error())
}
