package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/utils"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// expiryBuffer is subtracted from the provider lifetime so a token is
	// never presented in its last minute.
	expiryBuffer = 60 * time.Second
)

// TokenProvider hands out a bearer token for the provider API, exchanging
// client credentials only when the cached one has expired.
//
// It is safe for concurrent use. Concurrent misses share one exchange.
type TokenProvider struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
	log        logger.Logger
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
	gen    uint64 // bumped by ClearToken

	group singleflight.Group
}

// NewTokenProvider builds a provider against baseURL (no trailing slash).
func NewTokenProvider(httpClient *http.Client, baseURL, key, secret string, log logger.Logger) *TokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		secret:     secret,
		log:        log,
		now:        time.Now,
	}
}

// Token returns a valid access token. Errors match domain.ErrAuthentication.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.token != "" && p.now().Before(p.expiry) {
		tok := p.token
		p.mu.Unlock()
		return tok, nil
	}
	gen := p.gen
	p.mu.Unlock()

	// The exchange outlives a cancelled caller so the other waiters still
	// get its result.
	exchangeCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan("token", func() (interface{}, error) {
		return p.exchange(exchangeCtx, gen)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrAuthentication, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// ClearToken forgets the cached token. An exchange already in flight
// still answers its callers but does not repopulate the cache.
func (p *TokenProvider) ClearToken() {
	p.mu.Lock()
	p.token = ""
	p.expiry = time.Time{}
	p.gen++
	p.mu.Unlock()
	p.log.Info("provider token cleared")
}

// Expiry returns the expiry of the cached token and whether one is cached
// and still valid.
func (p *TokenProvider) Expiry() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == "" || !p.now().Before(p.expiry) {
		return time.Time{}, false
	}
	return p.expiry, true
}

func (p *TokenProvider) exchange(ctx context.Context, gen uint64) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.key)
	form.Set("client_secret", p.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Error("token exchange failed", logger.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.Error("token exchange rejected", logger.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: provider returned status %d", domain.ErrAuthentication, resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode token response: %w", domain.ErrAuthentication, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrAuthentication)
	}

	expiry := p.now().Add(time.Duration(body.ExpiresIn)*time.Second - expiryBuffer)

	p.mu.Lock()
	if p.gen == gen {
		p.token = body.AccessToken
		p.expiry = expiry
	}
	p.mu.Unlock()

	p.log.Debug("provider token issued",
		logger.Int("expires_in", body.ExpiresIn),
		logger.Time("expiry", expiry))

	return body.AccessToken, nil
}
