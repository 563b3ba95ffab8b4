package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// withRequestID makes the client send id as the X-Request-ID of the next
// request issued with the returned context.
func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Client talks to the PicsFeed API rooted at a single base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient returns a Client for baseURL. A nil httpClient means a plain
// &http.Client{}; no timeout is set.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set(requestIDHeader, requestIDFrom(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &ResponseError{Op: op, Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, v any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{Op: op, Err: err}
	}
	return nil
}

// Images fetches the feed in the order the server returns it.
func (c *Client) Images(ctx context.Context) (Images, error) {
	var images Images
	if err := c.getJSON(ctx, "fetch images", "/images", &images); err != nil {
		return nil, err
	}
	if images == nil {
		return nil, &ParseError{Op: "fetch images", Err: fmt.Errorf("expected a list of images, got null")}
	}
	return images, nil
}

// Vote records one like or dislike for an image.
func (c *Client) Vote(ctx context.Context, id ImageID, voteType VoteType) error {
	payload, err := json.Marshal(voteRequest{ImageID: id, VoteType: voteType})
	if err != nil {
		return fmt.Errorf("encoding vote: %w", err)
	}
	resp, err := c.do(ctx, "vote", http.MethodPost, "/vote", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Export opens the vote export. The caller must close the returned body.
func (c *Client) Export(ctx context.Context) (io.ReadCloser, error) {
	resp, err := c.do(ctx, "export votes", http.MethodGet, "/export", nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Health reports the status string of GET /health.
func (c *Client) Health(ctx context.Context) (string, error) {
	var h healthResponse
	if err := c.getJSON(ctx, "check health", "/health", &h); err != nil {
		return "", err
	}
	if h.Status != "ok" {
		return h.Status, fmt.Errorf("server reported status %q", h.Status)
	}
	return h.Status, nil
}
