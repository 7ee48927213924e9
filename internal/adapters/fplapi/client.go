// Package fplapi is a client for the public fantasy league API.
//
// Every request is a single GET with no retry; any transport failure or
// non-2xx answer is returned to the caller as is.
package fplapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/okian/leaguetable/pkg/metrics"
)

// Defaults.
const (
	DefaultBaseURL   = "https://fantasy.premierleague.com/api"
	DefaultUserAgent = "iste-promiyer-lig"
	DefaultTimeout   = 30 * time.Second
)

// Endpoint names used as metric labels.
const (
	endpointBootstrap = "bootstrap"
	endpointStandings = "standings"
	endpointHistory   = "history"
	endpointTransfers = "transfers"
	endpointPicks     = "picks"
)

// Client fetches league data from the upstream API.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a client on a pooled cleanhttp transport.
func New(opts ...Option) *Client {
	h := cleanhttp.DefaultPooledClient()
	h.Timeout = DefaultTimeout
	c := &Client{
		http:      h,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string { return c.baseURL }

// Bootstrap fetches the season metadata.
func (c *Client) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	var out Bootstrap
	if err := c.getJSON(ctx, endpointBootstrap, "/bootstrap-static/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Standings fetches one page of a classic league's standings.
func (c *Client) Standings(ctx context.Context, leagueID, page int) (*StandingsPage, error) {
	path := fmt.Sprintf("/leagues-classic/%d/standings/?page_standings=%d", leagueID, page)
	var out StandingsPage
	if err := c.getJSON(ctx, endpointStandings, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches a manager's gameweek history and chips.
func (c *Client) History(ctx context.Context, entryID int) (*History, error) {
	var out History
	if err := c.getJSON(ctx, endpointHistory, "/entry/"+strconv.Itoa(entryID)+"/history/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfers fetches every transfer a manager made this season.
func (c *Client) Transfers(ctx context.Context, entryID int) ([]TransferRecord, error) {
	var out []TransferRecord
	if err := c.getJSON(ctx, endpointTransfers, "/entry/"+strconv.Itoa(entryID)+"/transfers/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Picks fetches a manager's team for one gameweek.
func (c *Client) Picks(ctx context.Context, entryID, gw int) (*Picks, error) {
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gw)
	var out Picks
	if err := c.getJSON(ctx, endpointPicks, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out interface{}) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, u, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, 0, time.Since(start))
		return fmt.Errorf("%w: %s: %v", ErrUpstream, u, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: u, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, u, err)
	}
	return nil
}
