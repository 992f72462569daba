package shiprocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	// tokenTTL is the assumed validity window for a freshly obtained or
	// preset token. Shiprocket tokens live longer; 10h keeps a comfortable
	// distance from the real expiry.
	tokenTTL = 10 * time.Hour

	// tokenSafetyMargin is subtracted from a credential's expiry before it
	// is considered unusable, so a token never expires mid-request.
	tokenSafetyMargin = 30 * time.Second
)

// Credentials holds the configured Shiprocket account credentials.
// Token, when set, is a long-lived preset token whose rotation is managed
// outside this service; otherwise Email and Password drive a login exchange.
type Credentials struct {
	Token    string
	Email    string
	Password string
}

// credential is a cached bearer token. It is immutable once stored; the
// cache swaps whole values so a reader never observes a token paired with
// a stale expiry.
type credential struct {
	token     string
	expiresAt time.Time
}

// TokenSource caches the current bearer token and refreshes it on demand.
// It is safe for concurrent use: racing callers may each perform a
// redundant login, which is harmless on the carrier side, and the cache
// replace is atomic.
type TokenSource struct {
	creds  Credentials
	api    APIClient
	logger *otelzap.Logger

	cached atomic.Pointer[credential]

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenSource creates a token source backed by the given API client.
func NewTokenSource(creds Credentials, api APIClient, logger *otelzap.Logger) *TokenSource {
	return &TokenSource{
		creds:  creds,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// NewTokenSourceWithClock creates a token source with a custom clock.
// This is useful for driving expiry in tests.
func NewTokenSourceWithClock(creds Credentials, api APIClient, logger *otelzap.Logger, now func() time.Time) *TokenSource {
	s := NewTokenSource(creds, api, logger)
	s.now = now
	return s
}

// Token returns a bearer token valid for at least the safety margin.
// A cached credential is reused without any network call; otherwise the
// preset token is adopted or a login exchange is performed. Nothing is
// cached on failure, so a later call retries the login.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	now := s.now()

	if c := s.cached.Load(); c != nil && now.Add(tokenSafetyMargin).Before(c.expiresAt) {
		return c.token, nil
	}

	if s.creds.Token != "" {
		s.cached.Store(&credential{token: s.creds.Token, expiresAt: now.Add(tokenTTL)})
		return s.creds.Token, nil
	}

	if s.creds.Email == "" || s.creds.Password == "" {
		return "", NewError(KindAuth,
			"credentials missing: set SHIPROCKET_EMAIL and SHIPROCKET_PASSWORD or SHIPROCKET_TOKEN")
	}

	resp, err := s.api.Login(ctx, &LoginRequest{Email: s.creds.Email, Password: s.creds.Password})
	if err != nil {
		if IsAuth(err) {
			return "", err
		}
		return "", NewError(KindAuth, "login exchange failed").WithCause(err)
	}

	s.cached.Store(&credential{token: resp.Token, expiresAt: now.Add(tokenTTL)})
	s.logger.Info("Refreshed Shiprocket token",
		zap.Time("expires_at", now.Add(tokenTTL)),
	)
	return resp.Token, nil
}

// Invalidate drops the cached credential so the next call refreshes.
func (s *TokenSource) Invalidate() {
	s.cached.Store(nil)
}
