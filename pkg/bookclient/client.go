package bookclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Book mirrors the api book record. The id is assigned by the
// server and must never be synthesized on this side.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// TokenProvider supplies the bearer credential attached to outgoing
// requests. It is called again on every request so a refreshed token
// is picked up without rebuilding the client. Returning false means
// no credential is available and the header is left out.
type TokenProvider func() (token string, ok bool)

// APIError carries the status code and server message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// genericErrorMessage is the fallback when a failure body carries no
// usable message field.
const genericErrorMessage = "request failed. please try again."

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTokenProvider injects the credential accessor.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) {
		c.tokenProvider = tp
	}
}

// Client calls the books catalog api. All operations go through the
// `/api/books` resource and decode the server json envelope.
type Client struct {
	baseURL       *url.URL
	httpClient    *http.Client
	tokenProvider TokenProvider
}

// New constructs a Client bound to the provided base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bookclient: invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("bookclient: base url must be absolute")
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the generic response shape sent by the api.
type envelope struct {
	RequestID string          `json:"requestid"`
	Status    int             `json:"status"`
	Message   string          `json:"message"`
	Total     *int            `json:"total,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// List fetches all book records in the server defined stable order.
func (c *Client) List(ctx context.Context) ([]Book, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/books", nil)
	if err != nil {
		return nil, err
	}
	var books []Book
	if err := json.Unmarshal(env.Data, &books); err != nil {
		return nil, fmt.Errorf("bookclient: decode list response: %w", err)
	}
	return books, nil
}

// Get fetches a single book record by its id.
func (c *Client) Get(ctx context.Context, id string) (Book, error) {
	var book Book
	env, err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil)
	if err != nil {
		return book, err
	}
	if err := json.Unmarshal(env.Data, &book); err != nil {
		return book, fmt.Errorf("bookclient: decode get response: %w", err)
	}
	return book, nil
}

// Create submits a new book and returns the stored record
// including its server-assigned id.
func (c *Client) Create(ctx context.Context, draft Draft) (Book, error) {
	var book Book
	payload := map[string]string{
		"title":       draft.Title,
		"author":      draft.Author,
		"description": draft.Description,
	}
	env, err := c.do(ctx, http.MethodPost, "/api/books", payload)
	if err != nil {
		return book, err
	}
	if err := json.Unmarshal(env.Data, &book); err != nil {
		return book, fmt.Errorf("bookclient: decode create response: %w", err)
	}
	return book, nil
}

// Delete removes a book record by its id and returns the deleted record.
func (c *Client) Delete(ctx context.Context, id string) (Book, error) {
	var book Book
	env, err := c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil)
	if err != nil {
		return book, err
	}
	if err := json.Unmarshal(env.Data, &book); err != nil {
		return book, fmt.Errorf("bookclient: decode delete response: %w", err)
	}
	return book, nil
}

// do performs a single request without any retry. A non-2xx response is
// turned into an *APIError carrying the server message when one can be
// read from the body, or a generic fallback otherwise.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("bookclient: encode request payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("bookclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.tokenProvider != nil {
		if token, ok := c.tokenProvider(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookclient: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bookclient: read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(data),
		}
	}

	env := &envelope{}
	if err := json.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("bookclient: decode response envelope: %w", err)
	}
	return env, nil
}

// extractErrorMessage reads the `message` field of a failure body. The
// body may be empty, non json or missing that field, in which case the
// generic fallback is used.
func extractErrorMessage(data []byte) string {
	var failure struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &failure); err != nil || len(strings.TrimSpace(failure.Message)) == 0 {
		return genericErrorMessage
	}
	return failure.Message
}
