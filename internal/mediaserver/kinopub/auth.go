package kinopub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

const pendingError = "authorization_pending"

// AuthConfig carries the OAuth client registration and endpoints
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	OAuthURL     string
	RefreshURL   string
}

// Authenticator runs the OAuth device flow and keeps the stored token fresh
type Authenticator struct {
	cfg        AuthConfig
	store      TokenStore
	httpClient HTTPDoer
	now        func() time.Time
	wait       WaitFunc
	logger     *slog.Logger
}

// AuthOption customises an Authenticator.
type AuthOption func(*Authenticator)

// WithAuthHTTPClient overrides the HTTP backend.
func WithAuthHTTPClient(client HTTPDoer) AuthOption {
	return func(a *Authenticator) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithClock overrides the time source used for expiry and deadlines.
func WithClock(now func() time.Time) AuthOption {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithPollWait overrides how the authenticator waits between polls.
func WithPollWait(wait WaitFunc) AuthOption {
	return func(a *Authenticator) {
		if wait != nil {
			a.wait = wait
		}
	}
}

// NewAuthenticator creates an authenticator persisting tokens to store
func NewAuthenticator(cfg AuthConfig, store TokenStore, logger *slog.Logger, opts ...AuthOption) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Authenticator{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
		wait:       SleepWithContext,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartDeviceFlow requests a device code the user must approve in a browser
func (a *Authenticator) StartDeviceFlow(ctx context.Context) (*domain.DeviceCode, error) {
	status, body, err := a.postForm(ctx, a.cfg.OAuthURL, url.Values{
		"grant_type":    {"device_code"},
		"client_id":     {a.cfg.ClientID},
		"client_secret": {a.cfg.ClientSecret},
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		a.logger.Error("device code request rejected", "status", status, "body", truncate(body, 200))
		return nil, &domain.Error{Kind: domain.KindAuth, Op: "device code", Status: status, Msg: "device authorization request rejected"}
	}

	var resp deviceCodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.Error{Kind: domain.KindAuth, Op: "device code", Msg: "malformed device code response", Err: err}
	}

	a.logger.Info("device code issued", "user_code", resp.UserCode, "expires_in", resp.ExpiresIn)
	return &domain.DeviceCode{
		Code:            resp.Code,
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		Interval:        resp.Interval,
		ExpiresIn:       resp.ExpiresIn,
		IssuedAt:        a.now(),
	}, nil
}

// PollForToken polls until the user approves the device, the service rejects
// it, or the code expires.
func (a *Authenticator) PollForToken(ctx context.Context, dc *domain.DeviceCode) (*domain.Token, error) {
	deadline := dc.Deadline()
	interval := time.Duration(dc.Interval) * time.Second

	for a.now().Before(deadline) {
		status, body, err := a.postForm(ctx, a.cfg.OAuthURL, url.Values{
			"grant_type":    {"device_token"},
			"client_id":     {a.cfg.ClientID},
			"client_secret": {a.cfg.ClientSecret},
			"code":          {dc.Code},
		})
		if err != nil {
			return nil, err
		}

		if status == http.StatusOK {
			tok, err := a.decodeToken(body, "")
			if err != nil {
				return nil, err
			}
			a.logger.Info("device authorized")
			return tok, nil
		}

		var resp oauthErrorResponse
		_ = json.Unmarshal(body, &resp)
		if resp.Error != pendingError {
			return nil, &domain.Error{Kind: domain.KindAuth, Op: "device token", Status: status,
				Msg: fmt.Sprintf("unexpected auth error: %s", resp.Error)}
		}

		a.logger.Debug("authorization pending", "interval", interval)
		if err := a.wait(ctx, interval); err != nil {
			return nil, err
		}
	}

	return nil, &domain.Error{Kind: domain.KindAuthTimeout, Msg: "device authorization timed out"}
}

// RefreshToken exchanges the refresh token for a new pair
func (a *Authenticator) RefreshToken(ctx context.Context, tok domain.Token) (*domain.Token, error) {
	status, body, err := a.postForm(ctx, a.cfg.RefreshURL, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {a.cfg.ClientID},
		"client_secret": {a.cfg.ClientSecret},
		"refresh_token": {tok.RefreshToken},
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		a.logger.Warn("token refresh rejected", "status", status)
		return nil, &domain.Error{Kind: domain.KindAuth, Op: "token refresh", Status: status, Msg: "token refresh failed"}
	}
	return a.decodeToken(body, tok.RefreshToken)
}

// EnsureValidToken returns a usable token, refreshing and persisting it
// when the stored one has expired.
func (a *Authenticator) EnsureValidToken(ctx context.Context) (*domain.Token, error) {
	tok, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, domain.NewAuthError("not authenticated, run `moviebuddy auth` first")
	}
	if !tok.IsExpired(a.now()) {
		return tok, nil
	}

	a.logger.Info("access token expired, refreshing")
	fresh, err := a.RefreshToken(ctx, *tok)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(*fresh); err != nil {
		return nil, fmt.Errorf("save refreshed token: %w", err)
	}
	return fresh, nil
}

// CurrentToken returns the stored token without refreshing it
func (a *Authenticator) CurrentToken() (*domain.Token, error) {
	return a.store.Load()
}

// Login runs the full device flow. notify is called once the code is known
// so the caller can show it to the user.
func (a *Authenticator) Login(ctx context.Context, notify func(*domain.DeviceCode)) (*domain.Token, error) {
	dc, err := a.StartDeviceFlow(ctx)
	if err != nil {
		return nil, err
	}
	if notify != nil {
		notify(dc)
	}

	tok, err := a.PollForToken(ctx, dc)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(*tok); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return tok, nil
}

// Logout removes the stored token
func (a *Authenticator) Logout() error {
	return a.store.Clear()
}

// decodeToken parses a token response. A missing refresh token falls back to
// previousRefresh; with neither the response is rejected.
func (a *Authenticator) decodeToken(body []byte, previousRefresh string) (*domain.Token, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.Error{Kind: domain.KindAuth, Msg: "malformed token response", Err: err}
	}
	if resp.AccessToken == "" {
		return nil, domain.NewAuthError("token response missing access token")
	}
	refresh := resp.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	if refresh == "" {
		return nil, domain.NewAuthError("token response missing refresh token")
	}
	return &domain.Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    a.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

func (a *Authenticator) postForm(ctx context.Context, endpoint string, form url.Values) (int, []byte, error) {
	op := "POST " + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	a.logger.Debug("oauth request", "url", endpoint, "grant_type", form.Get("grant_type"))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("oauth request failed", "error", err)
		return 0, nil, classifyTransportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
