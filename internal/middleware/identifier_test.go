package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func identifierFor(t *testing.T, remoteAddr, forwardedFor string) string {
	t.Helper()

	var got string
	h := UserIdentifier(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentifier(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestUserIdentifier_RemoteAddr(t *testing.T) {
	assert.Equal(t, "10.0.0.5", identifierFor(t, "10.0.0.5:54321", ""))
}

func TestUserIdentifier_ForwardedForWins(t *testing.T) {
	assert.Equal(t, "203.0.113.7", identifierFor(t, "10.0.0.5:54321", "203.0.113.7"))
}

func TestUserIdentifier_ForwardedForFirstHop(t *testing.T) {
	assert.Equal(t, "203.0.113.7", identifierFor(t, "10.0.0.5:54321", "203.0.113.7, 10.0.0.1, 10.0.0.2"))
}

func TestUserIdentifier_NoPort(t *testing.T) {
	assert.Equal(t, "10.0.0.5", identifierFor(t, "10.0.0.5", ""))
}

func TestGetIdentifier_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetIdentifier(req.Context()))
}
