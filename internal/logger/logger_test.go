package logger

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tz.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	l := Setup()
	l.Debug("logger_test_event", "k", 1)
	require.NoError(t, Rotate())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "tz*.log"))
	require.NoError(t, err)
	var found bool
	for _, m := range matches {
		b, err := os.ReadFile(m)
		require.NoError(t, err)
		if len(b) > 0 {
			require.Contains(t, string(b), `"msg":"logger_test_event"`)
			found = true
		}
	}
	require.True(t, found)

	t.Setenv("LOG_FILE", "")
	Setup()
	require.NoError(t, Rotate())
}

func TestAccessMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tz?lat=1&lon=2", nil))
	require.Empty(t, buf.String())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Contains(t, buf.String(), `"msg":"http_access"`)
	require.Contains(t, buf.String(), `"status":503`)
}
