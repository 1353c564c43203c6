package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"docgrip/internal/domain"
)

const (
	// DefaultEndpoint is the search path served by the index server
	DefaultEndpoint = "/api/search"

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 32 << 20
)

// Body formats. The server contract takes the query text verbatim; "json"
// wraps it as {"query": "..."} for servers that expect an object.
const (
	BodyRaw  = "raw"
	BodyJSON = "json"
)

var (
	// ErrTransport wraps failures to reach the server or read its response
	ErrTransport = errors.New("search request failed")
	// ErrDecode marks a response body that is not a list of [path, rank] pairs
	ErrDecode = errors.New("malformed search response")
)

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Code, http.StatusText(e.Code), body)
}

// Options configures a Client
type Options struct {
	BaseURL    string
	Endpoint   string
	Timeout    time.Duration // 0 means no client-side timeout
	BodyFormat string
	UserAgent  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client posts queries to the search endpoint
type Client struct {
	http       *http.Client
	url        string
	bodyFormat string
	userAgent  string
	log        zerolog.Logger
}

// New creates a search client
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, errors.New("search client needs a base url")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	format := opts.BodyFormat
	if format == "" {
		format = BodyRaw
	}
	if format != BodyRaw && format != BodyJSON {
		return nil, fmt.Errorf("unknown body format %q", format)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "docgrip"
	}

	return &Client{
		http:       httpClient,
		url:        base + endpoint,
		bodyFormat: format,
		userAgent:  userAgent,
		log:        opts.Logger.With().Str("component", "client").Logger(),
	}, nil
}

// URL returns the full search endpoint URL
func (c *Client) URL() string {
	return c.url
}

// Search posts query to the endpoint and decodes the ranked results.
// domain.NotifyIssued is fired as soon as the request has been written.
func (c *Client) Search(ctx context.Context, query string) (domain.ResultSet, error) {
	// Make sure a failure before the write still releases the caller
	defer domain.NotifyIssued(ctx)

	body, err := c.encodeBody(query)
	if err != nil {
		return nil, err
	}

	requestID := domain.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	trace := &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) {
			domain.NotifyIssued(ctx)
		},
	}
	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("Search response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	return DecodeResults(data)
}

func (c *Client) encodeBody(query string) ([]byte, error) {
	if c.bodyFormat == BodyJSON {
		body, err := sjson.SetBytes([]byte(`{}`), "query", query)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query: %w", err)
		}
		return body, nil
	}
	return []byte(query), nil
}

// DecodeResults parses a response body of the form [[path, rank], ...].
// Order is preserved; an empty array yields an empty, non-nil set.
func DecodeResults(body []byte) (domain.ResultSet, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array, got %s", ErrDecode, root.Type)
	}

	entries := root.Array()
	results := make(domain.ResultSet, 0, len(entries))
	for i, entry := range entries {
		if !entry.IsArray() {
			return nil, fmt.Errorf("%w: entry %d is not an array", ErrDecode, i)
		}
		pair := entry.Array()
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: entry %d has %d elements, want 2", ErrDecode, i, len(pair))
		}
		if pair[0].Type != gjson.String {
			return nil, fmt.Errorf("%w: entry %d path is %s, want string", ErrDecode, i, pair[0].Type)
		}
		if pair[1].Type != gjson.Number {
			return nil, fmt.Errorf("%w: entry %d rank is %s, want number", ErrDecode, i, pair[1].Type)
		}
		results = append(results, domain.ResultItem{
			Path: pair[0].Str,
			Rank: pair[1].Float(),
		})
	}
	return results, nil
}
