package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestGateway_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeEnvelope(w, http.StatusOK, `{"success":true}`)
	}))
	defer srv.Close()

	store := newTestStore(t)
	require.NoError(t, store.Establish(testIdentity(domain.RoleStaff), "tok-abc"))

	gw := NewGateway(srv.URL, store, nil, zaptest.NewLogger(t))
	require.NoError(t, gw.do(context.Background(), http.MethodGet, "/x", nil, nil))

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestGateway_UnauthenticatedWhenNoSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, `{"success":true}`)
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL, newTestStore(t), nil, zaptest.NewLogger(t))
	require.NoError(t, gw.do(context.Background(), http.MethodGet, "/x", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestGateway_401ClearsSessionAndNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, `{"success":false,"message":"expired","code":"UNAUTHENTICATED"}`)
	}))
	defer srv.Close()

	store := newTestStore(t)
	require.NoError(t, store.Establish(testIdentity(domain.RoleStaff), "stale"))

	var navigatedTo string
	gw := NewGateway(srv.URL, store, func(route string) { navigatedTo = route }, zaptest.NewLogger(t))

	err := gw.do(context.Background(), http.MethodGet, "/x", nil, nil)

	var expired *AuthorizationExpiredError
	require.ErrorAs(t, err, &expired)
	assert.Nil(t, store.Current(), "session must be cleared")
	assert.Equal(t, RouteLogin, navigatedTo)
}

// Many in-flight calls failing with 401 at once must collapse to a
// single teardown and redirect.
func TestGateway_ConcurrentExpiry_SingleFire(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeEnvelope(w, http.StatusUnauthorized, `{"success":false,"code":"UNAUTHENTICATED"}`)
	}))
	defer srv.Close()

	store := newTestStore(t)
	require.NoError(t, store.Establish(testIdentity(domain.RoleStaff), "stale"))

	var navigations atomic.Int32
	gw := NewGateway(srv.URL, store, func(string) { navigations.Add(1) }, zaptest.NewLogger(t))

	const inFlight = 20
	var wg sync.WaitGroup
	for i := 0; i < inFlight; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := gw.do(context.Background(), http.MethodGet, "/x", nil, nil)
			var expired *AuthorizationExpiredError
			assert.ErrorAs(t, err, &expired)
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), navigations.Load(), "redirect must fire exactly once")
	assert.Nil(t, store.Current())
}

func TestGateway_403DoesNotTouchSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, `{"success":false,"message":"insufficient role","code":"FORBIDDEN"}`)
	}))
	defer srv.Close()

	store := newTestStore(t)
	require.NoError(t, store.Establish(testIdentity(domain.RoleCustomer), "tok"))

	var navigated bool
	gw := NewGateway(srv.URL, store, func(string) { navigated = true }, zaptest.NewLogger(t))

	err := gw.do(context.Background(), http.MethodGet, "/x", nil, nil)

	var denied *AuthorizationDeniedError
	require.ErrorAs(t, err, &denied)
	assert.NotNil(t, store.Current(), "session must stay intact on 403")
	assert.False(t, navigated)
}

func TestGateway_TypedErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "invalid credentials",
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"invalid email or credentials","code":"INVALID_CREDENTIALS"}`,
			check: func(t *testing.T, err error) {
				var e *AuthenticationError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "inactive account",
			status: http.StatusBadRequest,
			body:   `{"success":false,"code":"ACCOUNT_INACTIVE"}`,
			check: func(t *testing.T, err error) {
				var e *AuthenticationError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"quantity must be at least 1","code":"VALIDATION"}`,
			check: func(t *testing.T, err error) {
				var e *ValidationError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "insufficient stock",
			status: http.StatusConflict,
			body:   `{"success":false,"message":"insufficient stock","code":"INSUFFICIENT_STOCK"}`,
			check: func(t *testing.T, err error) {
				var e *BusinessRuleError
				require.ErrorAs(t, err, &e)
				assert.True(t, e.InsufficientStock())
			},
		},
		{
			name:   "email taken",
			status: http.StatusConflict,
			body:   `{"success":false,"code":"EMAIL_TAKEN"}`,
			check: func(t *testing.T, err error) {
				var e *BusinessRuleError
				require.ErrorAs(t, err, &e)
				assert.False(t, e.InsufficientStock())
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"success":false,"code":"NOT_FOUND"}`,
			check: func(t *testing.T, err error) {
				var e *BusinessRuleError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "server failure",
			status: http.StatusInternalServerError,
			body:   `{"success":false,"code":"INTERNAL"}`,
			check: func(t *testing.T, err error) {
				var e *TransportError
				require.ErrorAs(t, err, &e)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tc.status, tc.body)
			}))
			defer srv.Close()

			gw := NewGateway(srv.URL, newTestStore(t), nil, zaptest.NewLogger(t))
			err := gw.do(context.Background(), http.MethodGet, "/x", nil, nil)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestGateway_UnreachableServiceIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw := NewGateway(srv.URL, newTestStore(t), nil, zaptest.NewLogger(t))
	err := gw.do(context.Background(), http.MethodGet, "/x", nil, nil)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}

func TestGateway_MalformedResponseIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	gw := NewGateway(srv.URL, newTestStore(t), nil, zaptest.NewLogger(t))
	err := gw.do(context.Background(), http.MethodGet, "/x", nil, nil)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}
