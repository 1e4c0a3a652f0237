package paypal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// tokenPath is the endpoint the client-credentials grant posts to.
const tokenPath = "/v1/oauth2/token"

// expiryMargin is how long before a token's recorded expiry the client
// stops trusting it.
const expiryMargin = 60 * time.Second

// tokenSource mints and caches OAuth2 bearer tokens. A held token is
// reused until it comes within expiryMargin of its recorded expiry;
// after that, or after Invalidate, the next Token call performs a fresh
// client-credentials grant.
type tokenSource struct {
	conf   *clientcredentials.Config
	client *http.Client
	now    func() time.Time

	mu  sync.Mutex
	tok *oauth2.Token
}

func newTokenSource(clientID, clientSecret, baseURL string, client *http.Client, now func() time.Time) *tokenSource {
	return &tokenSource{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     baseURL + tokenPath,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		client: client,
		now:    now,
	}
}

// Token returns a bearer token, minting a new one when the held token
// is missing or too close to expiry. Concurrent callers serialize here,
// so at most one grant is in flight at a time.
func (s *tokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok != nil && s.now().Before(s.tok.Expiry.Add(-expiryMargin)) {
		return s.tok, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := s.conf.Token(ctx)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	s.tok = tok
	return tok, nil
}

// Invalidate discards the held token so the next Token call mints a
// fresh one. The executor calls this when the API answers 401.
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = nil
}

// classifyTokenError maps grant failures onto the client's error
// taxonomy. A 4xx from the authorization server means the credentials
// are bad; anything else is worth retrying later.
func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		status := retrieveErr.Response.StatusCode
		if status >= 400 && status < 500 {
			return &AuthError{Err: err}
		}
		return &TransientError{Status: status, Err: err}
	}
	return &TransientError{Err: err}
}
