package rutos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SecurityBanner is the legal warning some devices expose before login.
type SecurityBanner struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// UnauthorizedStatusData is the payload of /unauthorized/status.
type UnauthorizedStatusData struct {
	Lang             string          `json:"lang"`
	Filename         *string         `json:"filename,omitempty"`
	DeviceName       string          `json:"device_name"`
	DeviceModel      string          `json:"device_model"`
	APIVersion       string          `json:"api_version"`
	DeviceIdentifier string          `json:"device_identifier"`
	SecurityBanner   *SecurityBanner `json:"security_banner,omitempty"`
}

// UnauthorizedClient fetches the public status endpoint. It needs no token,
// so it holds the raw transport instead of going through the session
// manager.
type UnauthorizedClient struct {
	client  *http.Client
	baseURL string
}

// NewUnauthorizedClient creates a client for the unauthenticated endpoint.
func NewUnauthorizedClient(client *http.Client, baseURL string) *UnauthorizedClient {
	return &UnauthorizedClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetStatus fetches the device metadata available without authentication.
func (u *UnauthorizedClient) GetStatus(ctx context.Context) (*Response[UnauthorizedStatusData], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/unauthorized/status", nil)
	if err != nil {
		return nil, fmt.Errorf("creating status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(u.baseURL, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(u.baseURL, err)
	}
	return decodeResponse[UnauthorizedStatusData](payload)
}
