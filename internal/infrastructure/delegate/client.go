// Package delegate talks to the companion server that performs social
// sharing and watchlist updates on the user's behalf.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

const (
	defaultRequestsPerSecond = 2.0
	defaultBurst             = 2
	maxErrorBody             = 512
)

// Options tunes the client.
type Options struct {
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// Client implements ShareDelegate and WatchlistDelegate over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient targets the server at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: domain.DefaultHTTPClientTimeout}
	}
	if baseURL == "" {
		baseURL = domain.DefaultServerURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    opts.HTTPClient,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type shareRequest struct {
	Message  string   `json:"message"`
	Contacts []string `json:"contacts"`
}

type shareResponse struct {
	Results []struct {
		Number string `json:"number"`
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"results"`
}

// Share sends message to each contact. Per-contact failures are reported in
// the results, not as an error.
func (c *Client) Share(ctx context.Context, message string, contacts []string) ([]ports.ShareResult, error) {
	if contacts == nil {
		contacts = []string{}
	}
	var resp shareResponse
	if err := c.post(ctx, "/whatsapp", shareRequest{Message: message, Contacts: contacts}, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.ShareResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, ports.ShareResult{Contact: r.Number, Sent: r.Status == "sent", Error: r.Error})
	}
	return out, nil
}

type watchlistRequest struct {
	Movie string `json:"movie"`
	Year  string `json:"year"`
}

type watchlistResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Year    string `json:"year"`
	Slug    string `json:"slug"`
	Note    string `json:"note"`
}

// AddToWatchlist asks the server to add movie to the watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, movie, year string) (ports.WatchlistEntry, error) {
	var resp watchlistResponse
	if err := c.post(ctx, "/letterboxd", watchlistRequest{Movie: movie, Year: year}, &resp); err != nil {
		return ports.WatchlistEntry{}, err
	}
	if !resp.Success {
		return ports.WatchlistEntry{}, fmt.Errorf("watchlist update for %q was not confirmed", movie)
	}
	return ports.WatchlistEntry{Title: resp.Title, Year: resp.Year, Slug: resp.Slug, Note: resp.Note}, nil
}

// Health is the server's self-reported state.
type Health struct {
	Status     string
	Components map[string]string
}

// Summary renders the component states on one line.
func (h Health) Summary() string {
	keys := make([]string, 0, len(h.Components))
	for k := range h.Components {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, "status="+h.Status)
	for _, k := range keys {
		parts = append(parts, k+"="+h.Components[k])
	}
	return strings.Join(parts, " ")
}

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, err
	}
	var raw map[string]json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return Health{}, err
	}
	h := Health{Components: make(map[string]string)}
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		if k == "status" {
			h.Status = s
			continue
		}
		h.Components[k] = s
	}
	return h, nil
}

// Probe reports the health summary, failing unless the server says "ok".
func (c *Client) Probe(ctx context.Context) (string, error) {
	h, err := c.Health(ctx)
	if err != nil {
		return "", err
	}
	if h.Status != "ok" {
		return "", fmt.Errorf("%s reports %s", c.baseURL, h.Summary())
	}
	return h.Summary(), nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s %s: status %d after %s: %s",
			req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond), serverError(snippet))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// serverError extracts {"error": "..."} bodies, falling back to raw text.
func serverError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

var (
	_ ports.ShareDelegate     = (*Client)(nil)
	_ ports.WatchlistDelegate = (*Client)(nil)
)
