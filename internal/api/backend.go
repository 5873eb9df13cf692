// Package api provides the HTTP client for the radio backend: now-playing
// metadata, the stream proxy and the logo proxy.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	requestTimeout = 10 * time.Second
	logoMaxBytes   = 2 << 20

	nowPlayingPath  = "/now-playing"
	proxyStreamPath = "/proxy-stream"
	logoPath        = "/logo"
)

// ErrNoBackend is returned by calls that need a backend when none is configured.
var ErrNoBackend = errors.New("backend address not configured")

// NowPlaying is the metadata the backend extracted from a stream.
type NowPlaying struct {
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Song       string `json:"song,omitempty"`
	Show       string `json:"show,omitempty"`
	Bitrate    int    `json:"bitrate,omitempty"`
	ServerName string `json:"server_name,omitempty"`
}

// Track returns "Artist - Song" when both are known, otherwise the title.
func (n NowPlaying) Track() string {
	if n.Artist != "" && n.Song != "" {
		return fmt.Sprintf("%s - %s", n.Artist, n.Song)
	}
	return n.Title
}

// nowPlayingResponse accepts both spellings of the server name key.
type nowPlayingResponse struct {
	NowPlaying
	ServerNameCamel string `json:"serverName,omitempty"`
}

// Client is the HTTP client for the radio backend.
type Client struct {
	client  *resty.Client
	baseURL string
}

// NewClient creates a backend client for baseURL. An empty baseURL yields a
// client without backend: metadata calls fail with ErrNoBackend and no proxy
// address is offered.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	client := resty.New().
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", "piradio")
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return &Client{client: client, baseURL: baseURL}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// NowPlaying fetches the current metadata for the stream at streamURL.
func (c *Client) NowPlaying(ctx context.Context, streamURL string) (*NowPlaying, error) {
	if c.baseURL == "" {
		return nil, ErrNoBackend
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("url", streamURL).
		Get(nowPlayingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch now playing: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("api returned status %d: %s", resp.StatusCode(), resp.Status())
	}

	var response nowPlayingResponse
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse now playing response: %w", err)
	}

	np := response.NowPlaying
	if np.ServerName == "" {
		np.ServerName = response.ServerNameCamel
	}
	return &np, nil
}

// ProxyStreamURL returns the backend address relaying primary, or "" when no
// backend is configured.
func (c *Client) ProxyStreamURL(primary string) string {
	return c.proxied(proxyStreamPath, primary)
}

// LogoURL returns the backend address relaying the logo at logo, or "".
func (c *Client) LogoURL(logo string) string {
	return c.proxied(logoPath, logo)
}

func (c *Client) proxied(path, target string) string {
	if c.baseURL == "" || target == "" {
		return ""
	}
	return c.baseURL + path + "?url=" + url.QueryEscape(target)
}

// FetchLogo downloads image bytes from an absolute address.
func (c *Client) FetchLogo(ctx context.Context, address string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "image/*").
		Get(address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("logo request returned status %d: %s", resp.StatusCode(), resp.Status())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, errors.New("logo response is empty")
	}
	if len(body) > logoMaxBytes {
		return nil, fmt.Errorf("logo too large: %d bytes", len(body))
	}

	return body, nil
}
