package paypal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenJSON(token string) string {
	return fmt.Sprintf(`{"access_token": %q, "token_type": "Bearer", "expires_in": 32400}`, token)
}

func newTokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tokenJSON(fmt.Sprintf("token-%d", n)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenSource_CachesToken(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), time.Now)

	first, err := source.Token(context.Background())
	require.NoError(t, err)
	second, err := source.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(1), calls.Load(), "second call should reuse the cached token")
}

func TestTokenSource_RefreshesExpiredToken(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	var mu sync.Mutex
	current := time.Now()
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), now)

	first, err := source.Token(context.Background())
	require.NoError(t, err)

	// Jump past the token's nine-hour lifetime.
	mu.Lock()
	current = current.Add(10 * time.Hour)
	mu.Unlock()

	second, err := source.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSource_RefreshesInsideExpiryMargin(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	var mu sync.Mutex
	current := time.Now()
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), now)

	_, err := source.Token(context.Background())
	require.NoError(t, err)

	// Land within the safety margin before expiry: still valid on the
	// wire, but no longer trusted.
	mu.Lock()
	current = current.Add(32400*time.Second - 30*time.Second)
	mu.Unlock()

	_, err = source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSource_InvalidateForcesRefresh(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), time.Now)

	first, err := source.Token(context.Background())
	require.NoError(t, err)

	source.Invalidate()

	second, err := source.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSource_ConcurrentAccess(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), time.Now)

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := source.Token(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load(), "concurrent callers should share one grant")
}

func TestTokenSource_RequestFormat(t *testing.T) {
	var gotMethod, gotContentType, gotGrantType string
	var gotUser, gotPass string
	var gotBasic bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotUser, gotPass, gotBasic = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotGrantType = r.PostForm.Get("grant_type")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tokenJSON("test-token"))
	}))
	t.Cleanup(srv.Close)

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), time.Now)

	tok, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", tok.AccessToken)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "client_credentials", gotGrantType)
	require.True(t, gotBasic, "credentials should travel as HTTP Basic auth")
	assert.Equal(t, "client-id", gotUser)
	assert.Equal(t, "client-secret", gotPass)
}

func TestTokenSource_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_client", "error_description": "Client Authentication failed"}`)
	}))
	t.Cleanup(srv.Close)

	source := newTokenSource("client-id", "wrong-secret", srv.URL, srv.Client(), time.Now)

	_, err := source.Token(context.Background())
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestTokenSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	source := newTokenSource("client-id", "client-secret", srv.URL, srv.Client(), time.Now)

	_, err := source.Token(context.Background())
	require.Error(t, err)
	var transientErr *TransientError
	require.ErrorAs(t, err, &transientErr)
	assert.Equal(t, http.StatusServiceUnavailable, transientErr.Status)
}
