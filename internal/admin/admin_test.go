package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRoster struct {
	users []string
}

func (s stubRoster) Sessions() int   { return len(s.users) }
func (s stubRoster) Users() []string { return s.users }

func TestHealthz_ReportsRoster(t *testing.T) {
	req := require.New(t)
	h := NewHandler(stubRoster{users: []string{"alice", "bob"}}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))

	var body health
	req.NoError(json.NewDecoder(rec.Body).Decode(&body))
	req.Equal("ok", body.Status)
	req.Equal(2, body.Sessions)
	req.Equal([]string{"alice", "bob"}, body.Users)
	req.Positive(body.Goroutines)
}

func TestHealthz_EmptyRosterEncodesEmptyList(t *testing.T) {
	req := require.New(t)
	h := NewHandler(stubRoster{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"users":[]`)
}

func TestMetrics_ServesPrometheusText(t *testing.T) {
	req := require.New(t)
	h := NewHandler(stubRoster{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "go_goroutines")
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(stubRoster{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
