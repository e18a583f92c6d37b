package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/catalogus/catalogus-backend/internal/domain"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestLogger_Success(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/watchlist", nil)
	RequestID(Logger(newBufferLogger(&buf))(handler)).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"msg":"http.request"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/watchlist"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"request_id":"`)
	assert.NotContains(t, out, "user_id")
}

func TestLogger_ServerErrorLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.WriteHeader(http.StatusOK)
	})

	Logger(newBufferLogger(&buf))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/watchlist", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":502`)
	assert.Contains(t, out, `"level":"ERROR"`)
}

func TestLogger_RecordsAuthenticatedUser(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	userID := uuid.New()
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/watchlist/x", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	chain := Logger(newBufferLogger(&buf))(Authenticate(staticValidator(userID, domain.UserRoleUser))(handler))
	chain.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, strings.Contains(buf.String(), userID.String()), "log should contain user id: %s", buf.String())
}
