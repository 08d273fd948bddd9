package rutos

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fgravato/rutos-scanner/pkg/errors"
)

// requestTimeout is the fixed budget for every network operation against
// the device. It is not caller-configurable; an injected transport keeps
// whatever timeout its owner chose.
const requestTimeout = 10 * time.Second

// authErrorCodes are the device error codes that indicate an authentication
// or authorization failure rather than an operational one.
var authErrorCodes = map[int]bool{
	errors.CodeUnauthorizedAccess:        true,
	errors.CodeLoginFailed:               true,
	errors.CodeGeneralStructureIncorrect: true,
	errors.CodeInvalidJWTToken:           true,
}

// Config holds the connection settings for one device.
type Config struct {
	BaseURL  string
	Username string
	Password string

	// SkipTLSVerify disables certificate verification for devices running
	// self-signed certificates. Ignored when HTTPClient is set.
	SkipTLSVerify bool

	// HTTPClient optionally supplies an externally owned transport. The
	// client never closes an injected transport.
	HTTPClient *http.Client
}

// Client is the high-level facade over the per-endpoint clients. The
// underlying clients are constructed lazily on first use and reused.
type Client struct {
	cfg        Config
	logger     zerolog.Logger
	httpClient *http.Client
	ownsClient bool

	auth         *Auth
	system       *System
	modems       *Modems
	unauthorized *UnauthorizedClient
}

// NewClient creates a facade for the device described by cfg. When cfg does
// not supply a transport, the client builds one with the fixed request
// timeout and owns its lifecycle; callers should defer Close.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		logger: logger,
	}
	if cfg.HTTPClient != nil {
		c.httpClient = cfg.HTTPClient
	} else {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.SkipTLSVerify}
		c.httpClient = &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		}
		c.ownsClient = true
	}
	return c
}

// Close releases the owned transport. Injected transports are left alone.
func (c *Client) Close() {
	if c.ownsClient {
		c.httpClient.CloseIdleConnections()
	}
}

// Auth returns the lazily constructed session manager.
func (c *Client) Auth() *Auth {
	if c.auth == nil {
		c.auth = NewAuth(c.httpClient, c.cfg.BaseURL, c.cfg.Username, c.cfg.Password, c.logger)
	}
	return c.auth
}

// System returns the lazily constructed system endpoint client.
func (c *Client) System() *System {
	if c.system == nil {
		c.system = NewSystem(c.Auth())
	}
	return c.system
}

// Modems returns the lazily constructed modems endpoint client.
func (c *Client) Modems() *Modems {
	if c.modems == nil {
		c.modems = NewModems(c.Auth())
	}
	return c.modems
}

// Unauthorized returns the lazily constructed public endpoint client.
func (c *Client) Unauthorized() *UnauthorizedClient {
	if c.unauthorized == nil {
		c.unauthorized = NewUnauthorizedClient(c.httpClient, c.cfg.BaseURL)
	}
	return c.unauthorized
}

// GetDeviceInfo fetches the device metadata available without logging in.
func (c *Client) GetDeviceInfo(ctx context.Context) (*UnauthorizedStatusData, error) {
	resp, err := c.Unauthorized().GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Success && resp.Data != nil {
		return resp.Data, nil
	}
	return nil, errors.NewConnectionError("Failed to get device info", nil)
}

// GetSystemInfo fetches the system/device status details.
func (c *Client) GetSystemInfo(ctx context.Context) (*DeviceStatusData, error) {
	resp, err := c.System().GetDeviceStatus(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Success && resp.Data != nil {
		return resp.Data, nil
	}
	return nil, errors.NewConnectionError("Failed to get system info", nil)
}

// GetModemStatus fetches the status of all modems reported by the device.
func (c *Client) GetModemStatus(ctx context.Context) ([]ModemStatus, error) {
	resp, err := c.Modems().GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Success && resp.Data != nil {
		return *resp.Data, nil
	}
	return nil, errors.NewConnectionError("Failed to get modem status", nil)
}

// ValidateCredentials attempts a login followed by a logout and reports
// whether the device accepted the credentials. Transport failures are
// returned as errors, not as a rejection.
func (c *Client) ValidateCredentials(ctx context.Context) (bool, error) {
	_, err := c.Auth().Authenticate(ctx)
	if _, logoutErr := c.Auth().Logout(ctx); logoutErr != nil {
		c.logger.Debug().Err(logoutErr).Msg("logout after credential check failed")
	}
	if err != nil {
		var authErr *errors.AuthenticationError
		if stderrors.As(err, &authErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RebootModem reboots the specified modem.
func (c *Client) RebootModem(ctx context.Context, modemID string) error {
	resp, err := c.Modems().Reboot(ctx, modemID)
	return c.checkAction(resp, err, "reboot modem")
}

// RestartConnection restarts the mobile connection of the specified modem.
func (c *Client) RestartConnection(ctx context.Context, modemID string) error {
	resp, err := c.Modems().RestartConnection(ctx, modemID)
	return c.checkAction(resp, err, "restart modem connection")
}

// SwitchSIM switches the specified modem to its next SIM.
func (c *Client) SwitchSIM(ctx context.Context, modemID string) error {
	resp, err := c.Modems().SwitchSIM(ctx, modemID)
	return c.checkAction(resp, err, "switch modem SIM")
}

// RebootDevice triggers a device reboot and reports whether the device
// accepted it.
func (c *Client) RebootDevice(ctx context.Context) (bool, error) {
	resp, err := c.System().Reboot(ctx)
	if err != nil {
		return false, err
	}
	return resp != nil && resp.Success, nil
}

// Logout invalidates the current session and reports whether the device
// confirmed it.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	resp, err := c.Auth().Logout(ctx)
	if err != nil {
		return false, err
	}
	return resp != nil && resp.Success, nil
}

// checkAction maps an unsuccessful action response to the failure taxonomy:
// no error details means the device was unreachable mid-action, an auth
// code means the session was rejected, anything else surfaces the device's
// own message.
func (c *Client) checkAction(resp *Response[ModemActionData], err error, actionName string) error {
	if err != nil {
		return err
	}
	if resp != nil && resp.Success {
		return nil
	}
	if resp == nil || len(resp.Errors) == 0 {
		return errors.NewConnectionError("Failed to "+actionName, nil)
	}
	first := resp.Errors[0]
	if authErrorCodes[first.Code] {
		return errors.NewAuthenticationError(first.Message, first.Code)
	}
	return errors.NewAPIError(first.Message, first.Code)
}
