package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_LoginSendsDeviceHeaders(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "macOS 15.1; MacBookPro18,3", r.Header.Get("X-System"))
		assert.Equal(t, "fp-1", r.Header.Get("X-Device-Fingerprint"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		writeJSON(w, http.StatusOK, `{"success":true,"message":"login successful","data":{
			"token":"tok","expires_at":"2030-01-01T00:00:00Z",
			"user":{"id":7,"username":"alice","email":"alice@example.com"}}}`)
	})

	c := New(srv.URL+"/", WithDevice("macOS 15.1; MacBookPro18,3", "fp-1"))
	auth, err := c.Login(t.Context(), "alice@example.com", "secret-pass").Unwrap()

	require.NoError(t, err)
	assert.Equal(t, "tok", auth.Token)
	assert.Equal(t, uint(7), auth.User.ID)
	assert.Equal(t, 2030, auth.ExpiresAt.Year())
}

func TestClient_BearerToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sessions":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"sessions":[{"id":1,"is_current_session":true},{"id":2}]}}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/sessions/2":
			writeJSON(w, http.StatusOK, `{"success":true,"message":"session revoked"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/sessions":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"revoked":3}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"clear_token":true}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	c := New(srv.URL)
	ctx := t.Context()

	list, ok := c.Sessions(ctx, "tok").Data()
	require.True(t, ok)
	require.Len(t, list.Sessions, 2)
	assert.True(t, list.Sessions[0].IsCurrentSession)

	assert.True(t, c.RevokeSession(ctx, "tok", 2).OK(), "success without data is still a value")

	all, ok := c.RevokeAllSessions(ctx, "tok").Data()
	require.True(t, ok)
	assert.Equal(t, int64(3), all.Revoked)

	out, ok := c.Logout(ctx, "tok").Data()
	require.True(t, ok)
	assert.True(t, out.ClearToken)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"type":"unauthorized","message":"authentication required"}}`)
	})

	res := New(srv.URL).Me(t.Context(), "stale")

	assert.False(t, res.OK())
	_, ok := res.Data()
	assert.False(t, ok)
	require.NotNil(t, res.Err())
	assert.Equal(t, http.StatusUnauthorized, res.Err().Status)
	assert.Equal(t, "authentication required", res.Err().Message)
	assert.True(t, res.Err().Unauthenticated())
}

func TestClient_InvalidCredentialsIsNotUnauthenticated(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"type":"invalid_credentials","message":"invalid email or password"}}`)
	})

	res := New(srv.URL).Login(t.Context(), "a@example.com", "wrong")

	require.NotNil(t, res.Err())
	assert.False(t, res.Err().Unauthenticated())
}

func TestClient_BadResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>bad gateway</html>`},
		{"failure without error", `{"success":false}`},
		{"wrong data shape", `{"success":true,"data":{"sessions":"nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadGateway, tt.body)
			})

			res := New(srv.URL, WithoutRetry()).Sessions(t.Context(), "tok")

			require.NotNil(t, res.Err())
			assert.Equal(t, ErrorTypeBadResponse, res.Err().Type)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(url).Login(t.Context(), "a@example.com", "pw")

	require.NotNil(t, res.Err())
	assert.Equal(t, ErrorTypeNetwork, res.Err().Type)
	assert.Zero(t, res.Err().Status)
}

type flakyTransport struct {
	calls atomic.Int32
	next  http.RoundTripper
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if f.calls.Add(1) == 1 {
		return nil, errors.New("connection reset by peer")
	}
	return f.next.RoundTrip(r)
}

func TestClient_RetriesIdempotentRequests(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":1,"username":"alice"}}`)
	})

	tr := &flakyTransport{next: http.DefaultTransport}
	c := New(srv.URL, WithHTTPClient(&http.Client{Transport: tr}))

	u, err := c.Me(t.Context(), "tok").Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, int32(2), tr.calls.Load())

	tr.calls.Store(0)
	res := c.Logout(t.Context(), "tok")
	require.NotNil(t, res.Err(), "POST is not retried")
	assert.Equal(t, int32(1), tr.calls.Load())
}

func TestClient_Health(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{"status":"unhealthy","service":"deskhub","version":"v1.2.0"}`)
	})

	h, err := New(srv.URL).Health(t.Context()).Unwrap()

	require.NoError(t, err)
	assert.Equal(t, "unhealthy", h.Status)
	assert.Equal(t, "v1.2.0", h.Version)
}

func TestClient_CanceledContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{}}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(srv.URL).Me(ctx, "tok")

	require.NotNil(t, res.Err())
	assert.Equal(t, ErrorTypeNetwork, res.Err().Type)
}

func TestResult(t *testing.T) {
	ok := Ok(42)
	v, present := ok.Data()
	assert.True(t, present)
	assert.Equal(t, 42, v)
	assert.Nil(t, ok.Err())

	failed := Fail[int](&Error{Type: "not_found", Message: "session not found", Status: 404})
	v, present = failed.Data()
	assert.False(t, present)
	assert.Zero(t, v)
	_, err := failed.Unwrap()
	assert.EqualError(t, err, "not_found (404): session not found")

	empty := Fail[int](nil)
	require.NotNil(t, empty.Err(), "a failure always carries an error")
	assert.Equal(t, ErrorTypeBadResponse, empty.Err().Type)
}
