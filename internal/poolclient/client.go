// Package poolclient talks to the candidate and recommendation services over
// HTTP GET with JSON responses.
package poolclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/poolquery"
)

const (
	// DefaultTimeout bounds a single request when no http.Client is supplied.
	DefaultTimeout = 10 * time.Second
	// maxResponseBytes caps how much of a response body is decoded.
	maxResponseBytes int64 = 1 << 20
)

// Client fetches candidate sets and pool recommendations.
type Client struct {
	candidateURL      string
	recommendationURL string
	http              *http.Client
}

// Option customizes Client construction.
type Option func(*Client)

// WithHTTPClient overrides the transport used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the transport-level timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// New returns a client for the two endpoint URLs, e.g.
// http://host:5000/champion-list and http://host:5000/champion-pool.
func New(candidateURL, recommendationURL string, opts ...Option) *Client {
	c := &Client{
		candidateURL:      strings.TrimSpace(candidateURL),
		recommendationURL: strings.TrimSpace(recommendationURL),
		http:              &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type candidateResponse struct {
	ChampionList *[]string `json:"champion_list"`
}

type recommendationResponse struct {
	ChampionPools *[]string `json:"champion_pools"`
}

// Candidates returns the raw candidate labels for role. The role is appended
// to the query string as-is.
func (c *Client) Candidates(ctx context.Context, role champion.Role) ([]string, error) {
	url := c.candidateURL + joiner(c.candidateURL) + "role=" + string(role)
	var resp candidateResponse
	if err := c.getJSON(ctx, ServiceCandidates, url, &resp); err != nil {
		return nil, err
	}
	if resp.ChampionList == nil {
		return nil, &FetchError{Service: ServiceCandidates, URL: url, Err: errors.New("payload missing champion_list")}
	}
	return *resp.ChampionList, nil
}

// Recommend asks the recommendation service for pools matching params.
func (c *Client) Recommend(ctx context.Context, params poolquery.Params) ([]string, error) {
	url := c.recommendationURL + joiner(c.recommendationURL) + params.Encode()
	var resp recommendationResponse
	if err := c.getJSON(ctx, ServiceRecommendation, url, &resp); err != nil {
		return nil, err
	}
	if resp.ChampionPools == nil {
		return nil, &FetchError{Service: ServiceRecommendation, URL: url, Err: errors.New("payload missing champion_pools")}
	}
	return *resp.ChampionPools, nil
}

func (c *Client) getJSON(ctx context.Context, svc Service, url string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Service: svc, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Service: svc, URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &FetchError{Service: svc, URL: url, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &FetchError{Service: svc, URL: url, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Service: svc, URL: url, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

func joiner(base string) string {
	if strings.Contains(base, "?") {
		return "&"
	}
	return "?"
}
