package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/guncad/market-server-go/internal/config"
)

const defaultVPNAPIBaseURL = "https://vpnapi.io/api/"

// VPNAPIClient looks addresses up on vpnapi.io.
type VPNAPIClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewVPNAPIClient(apiKey string) *VPNAPIClient {
	return &VPNAPIClient{
		client: &http.Client{
			Timeout: config.GeoLookupTimeout,
		},
		baseURL: defaultVPNAPIBaseURL,
		apiKey:  apiKey,
	}
}

func (c *VPNAPIClient) Lookup(ctx context.Context, ip string) (*GeoInfo, error) {
	endpoint := c.baseURL + url.PathEscape(ip) + "?key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup failed with status %d after %s", resp.StatusCode, time.Since(start))
	}

	var info GeoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode geo lookup response: %w", err)
	}
	return &info, nil
}
