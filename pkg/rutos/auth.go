package rutos

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fgravato/rutos-scanner/pkg/errors"
)

// tokenExpiryMargin is subtracted from the device-reported validity window
// so a token is refreshed shortly before the device itself expires it.
const tokenExpiryMargin = 5 * time.Second

// TokenData is the payload returned by /login.
type TokenData struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Expires  int    `json:"expires"`
}

// LogoutData is the payload returned by /logout.
type LogoutData struct {
	Response string `json:"response"`
}

// SessionStatusData is the payload returned by /session/status.
type SessionStatusData struct {
	Active bool `json:"active"`
}

// Auth owns the credentials and the cached bearer token, and is the single
// authenticated request primitive the resource clients go through.
//
// One Auth instance serves one logical flow of control. Concurrent Request
// calls that both observe an expired token may each trigger a redundant
// login; the last writer wins on the cached token. That race is accepted,
// not guarded: the login endpoint is idempotent, so a redundant login only
// wastes a round trip.
type Auth struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   zerolog.Logger

	token         string
	tokenExpires  int
	tokenUsername string
	tokenTime     time.Time
	authenticated bool

	// now is swapped out by tests to control the expiry clock
	now func() time.Time
}

// NewAuth creates a session manager for the given device and credentials.
func NewAuth(client *http.Client, baseURL, username, password string, logger zerolog.Logger) *Auth {
	return &Auth{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		logger:   logger,
		now:      time.Now,
	}
}

// Token returns the currently cached bearer token, or an empty string.
func (a *Auth) Token() string {
	return a.token
}

// IsAuthenticated reports whether a token exists and auth state is active.
func (a *Auth) IsAuthenticated() bool {
	return a.authenticated && a.token != ""
}

// IsTokenExpired reports whether the cached token is missing or within the
// safety margin of its expiry window.
func (a *Auth) IsTokenExpired() bool {
	if a.token == "" || a.tokenExpires == 0 || a.tokenTime.IsZero() {
		return true
	}
	return a.now().Sub(a.tokenTime) >= time.Duration(a.tokenExpires)*time.Second-tokenExpiryMargin
}

// ClearSession resets all in-memory session state. No network call is made.
func (a *Auth) ClearSession() {
	a.token = ""
	a.tokenExpires = 0
	a.tokenUsername = ""
	a.tokenTime = time.Time{}
	a.authenticated = false
}

// Authenticate posts the credentials to /login and caches the returned
// token. Transport failures surface as ConnectionError, device-side
// rejections as AuthenticationError or InvalidCredentialsError.
func (a *Auth) Authenticate(ctx context.Context) (*Response[TokenData], error) {
	body, err := json.Marshal(map[string]string{
		"username": a.username,
		"password": a.password,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.transportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a.transportError(err)
	}

	response, err := decodeResponse[TokenData](payload)
	if err != nil {
		return nil, a.transportError(err)
	}

	if response.Success && response.Data != nil &&
		response.Data.Token != "" && response.Data.Expires > 0 && response.Data.Username != "" {
		a.token = response.Data.Token
		a.tokenExpires = response.Data.Expires
		a.tokenUsername = response.Data.Username
		a.tokenTime = a.now()
		a.authenticated = true
		a.logger.Debug().
			Str("username", a.tokenUsername).
			Int("expires", a.tokenExpires).
			Msg("authenticated against device")
		return response, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.NewInvalidCredentialsError()
	}
	if len(response.Errors) > 0 {
		first := response.Errors[0]
		return nil, errors.NewAuthenticationError(
			fmt.Sprintf("Authentication failed: %s", first.Message), first.Code)
	}
	return nil, errors.NewAuthenticationError("Authentication failed", 0)
}

// Logout invalidates the session token on the device. Local session state
// is cleared on every exit path, even when the network call fails. Without
// a cached token no network call is made and a synthetic success envelope
// is returned.
func (a *Auth) Logout(ctx context.Context) (*Response[LogoutData], error) {
	if a.token == "" {
		return &Response[LogoutData]{
			Success: true,
			Data:    &LogoutData{Response: "No active session"},
		}, nil
	}
	defer a.ClearSession()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/logout", nil)
	if err != nil {
		return nil, fmt.Errorf("creating logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.transportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a.transportError(err)
	}
	response, err := decodeResponse[LogoutData](payload)
	if err != nil {
		return nil, a.transportError(err)
	}
	return response, nil
}

// SessionStatus asks the device whether the cached token still maps to an
// active session. A probe failure is informational, not operation-blocking:
// any transport or decode failure clears the session and reports active=false
// instead of returning an error.
func (a *Auth) SessionStatus(ctx context.Context) (*Response[SessionStatusData], error) {
	inactive := &Response[SessionStatusData]{
		Success: true,
		Data:    &SessionStatusData{Active: false},
	}
	if a.token == "" {
		return inactive, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/session/status", nil)
	if err != nil {
		return nil, fmt.Errorf("creating session status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.ClearSession()
		return inactive, nil
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		a.ClearSession()
		return inactive, nil
	}
	response, err := decodeResponse[SessionStatusData](payload)
	if err != nil {
		a.ClearSession()
		return inactive, nil
	}

	if response.Success && response.Data != nil && !response.Data.Active {
		a.ClearSession()
	}
	return response, nil
}

// Request is the entry point used by the resource clients. It
// re-authenticates first when the cached token is missing or stale, injects
// the bearer header when a token is present, merges caller headers, and
// returns the raw response. The caller owns the body and must close it.
func (a *Auth) Request(ctx context.Context, method, endpoint string, body io.Reader, header http.Header) (*http.Response, error) {
	if a.IsTokenExpired() {
		if _, err := a.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	url := a.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.transportError(err)
	}
	return resp, nil
}

// transportError maps a low-level failure to a ConnectionError with a
// message that identifies the device address. Timeouts get a dedicated
// message; anything else is classified by a case-insensitive "timeout"
// substring test on the cause.
func (a *Auth) transportError(err error) *errors.ConnectionError {
	return classifyTransportError(a.baseURL, err)
}

func classifyTransportError(baseURL string, err error) *errors.ConnectionError {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return errors.NewConnectionError(
				fmt.Sprintf("Connection timeout to device at %s", baseURL), err)
		}
		var opErr *net.OpError
		if stderrors.As(err, &opErr) {
			return errors.NewConnectionError(
				fmt.Sprintf("Cannot connect to device at %s: %v", baseURL, err), err)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return errors.NewConnectionError(
			fmt.Sprintf("Connection timeout to device at %s: %v", baseURL, err), err)
	}
	return errors.NewConnectionError(
		fmt.Sprintf("Connection error to device at %s: %v", baseURL, err), err)
}
