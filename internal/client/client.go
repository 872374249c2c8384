// ABOUTME: HTTP client for the recipe API
// ABOUTME: Attaches the bearer credential and normalizes every failure into an *Error

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request unless overridden
const DefaultTimeout = 30 * time.Second

// Client is the API client for one base URL and optional credential.
// It holds no mutable state after construction.
type Client struct {
	baseURL    string
	token      *LoginToken
	httpClient *http.Client
}

// Option configures a Client. Each client owns its http.Client, so the
// same options can be reused for every derived client.
type Option func(*Client)

// WithTimeout sets the per-request timeout; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport sets the round tripper used for requests
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// New creates a new API client with the given base URL and optional token
func New(baseURL string, token *LoginToken, opts ...Option) *Client {
	c := &Client{
		baseURL: SanitizeBaseURL(baseURL),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	if token != nil {
		t := *token
		c.token = &t
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Transport == nil {
		c.httpClient.Transport = NewLoggingTransport(nil)
	}
	return c
}

// SanitizeBaseURL strips a single trailing slash
func SanitizeBaseURL(base string) string {
	return strings.TrimSuffix(base, "/")
}

// BaseURL returns the sanitized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authorization returns the header value sent with requests, or "" without a token
func (c *Client) Authorization() string {
	if c.token == nil {
		return ""
	}
	return c.token.Type + " " + c.token.Token
}

// Login calls POST /login/
func (c *Client) Login(ctx context.Context, login Login) (*LoginToken, error) {
	var token LoginToken
	if err := c.doJSON(ctx, http.MethodPost, "/login/", login, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// CreateAccount calls POST /users/
func (c *Client) CreateAccount(ctx context.Context, user CreateUser) (*User, error) {
	var created User
	if err := c.doJSON(ctx, http.MethodPost, "/users/", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRecipes calls GET /recipes/ for one page
func (c *Client) ListRecipes(ctx context.Context, page Pagination) ([]Recipe, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("perPage", strconv.Itoa(page.PerPage))

	var recipes []Recipe
	if err := c.doJSON(ctx, http.MethodGet, "/recipes/?"+q.Encode(), nil, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []Recipe{}
	}
	return recipes, nil
}

// GetRecipe calls GET /recipes/{id}/
func (c *Client) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var recipe Recipe
	if err := c.doJSON(ctx, http.MethodGet, recipePath(id), nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe calls POST /recipes/
func (c *Client) CreateRecipe(ctx context.Context, recipe CreateRecipe) (*Recipe, error) {
	var created Recipe
	if err := c.doJSON(ctx, http.MethodPost, "/recipes/", recipe, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchRecipe calls PATCH /recipes/{id}/. Only the fields set in update
// are changed by the server; any response body is ignored.
func (c *Client) PatchRecipe(ctx context.Context, id string, update UpdateRecipe) error {
	return c.doJSON(ctx, http.MethodPatch, recipePath(id), update, nil)
}

// DeleteRecipe calls DELETE /recipes/{id}/
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, recipePath(id), nil, nil)
}

// UploadRecipeImage calls POST /recipes/{id}/image/ with the raw image bytes
// and returns the id of the stored image
func (c *Client) UploadRecipeImage(ctx context.Context, id string, image io.Reader, contentType string) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, recipePath(id)+"image/", image, contentType)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var imageID string
	if err := decodeBody(resp, &imageID); err != nil {
		return "", err
	}
	return imageID, nil
}

// DeleteRecipeImage calls DELETE /recipes/{id}/image/
func (c *Client) DeleteRecipeImage(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, recipePath(id)+"image/", nil, nil)
}

// AccountStats calls GET /stats/me/
func (c *Client) AccountStats(ctx context.Context) (*AccountStats, error) {
	var stats AccountStats
	if err := c.doJSON(ctx, http.MethodGet, "/stats/me/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func recipePath(id string) string {
	return "/recipes/" + url.PathEscape(id) + "/"
}

// doJSON sends an optional JSON body and decodes an optional JSON response
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindGeneric, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeBody(resp, out)
}

// send performs the request and rejects non-2xx responses
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindGeneric, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth := c.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, responseError(resp.StatusCode)
	}
	return resp, nil
}

func decodeBody(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindGeneric, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDeserialization, Err: err}
	}
	return nil
}
