// Package client talks to the cost roll-up REST API.
//
// Failures are classified: ErrTransient for network errors and 5xx
// responses, *ValidationError when the server rejects the payload, and
// ErrNotFound / ErrUnauthorized for the matching status codes. The client
// never retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/pricing"
)

const defaultTimeout = 15 * time.Second

var (
	ErrTransient    = errors.New("transient network failure")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is returned for 400 and 422 responses.
type ValidationError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("rejected (%d): %s", e.Status, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("rejected (%d): %s: %s", e.Status, e.Message, strings.Join(parts, "; "))
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PricingModel is a saved pricing model with its analysis.
type PricingModel struct {
	ID        int64            `json:"id"`
	Model     pricing.Model    `json:"model"`
	Analysis  pricing.Analysis `json:"analysis"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

// Budget is a saved grant budget with its computed summary.
type Budget struct {
	Budget    budget.Budget  `json:"budget"`
	Summary   budget.Summary `json:"summary"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// CalculatePricing runs a pricing analysis without saving.
func (c *Client) CalculatePricing(ctx context.Context, m pricing.Model) (PricingModel, error) {
	var out PricingModel
	err := c.do(ctx, http.MethodPost, "/api/pricing/calculate", m, &out)
	return out, err
}

// CalculateBudget computes a budget summary without saving.
func (c *Client) CalculateBudget(ctx context.Context, b budget.Budget) (Budget, error) {
	var out Budget
	err := c.do(ctx, http.MethodPost, "/api/budgets/calculate", b, &out)
	return out, err
}

// SavePricingModel creates m when id is 0 and replaces it otherwise.
func (c *Client) SavePricingModel(ctx context.Context, id int64, m pricing.Model) (PricingModel, error) {
	var out PricingModel
	if id == 0 {
		err := c.do(ctx, http.MethodPost, "/api/pricing-models", m, &out)
		return out, err
	}
	err := c.do(ctx, http.MethodPut, "/api/pricing-models/"+strconv.FormatInt(id, 10), m, &out)
	return out, err
}

// GetPricingModel loads a saved pricing model.
func (c *Client) GetPricingModel(ctx context.Context, id int64) (PricingModel, error) {
	var out PricingModel
	err := c.do(ctx, http.MethodGet, "/api/pricing-models/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

// SaveBudget stores b under its grant id.
func (c *Client) SaveBudget(ctx context.Context, b budget.Budget) (Budget, error) {
	var out Budget
	err := c.do(ctx, http.MethodPut, budgetPath(b.GrantID), b, &out)
	return out, err
}

// GetBudget loads the budget for grantID.
func (c *Client) GetBudget(ctx context.Context, grantID string) (Budget, error) {
	var out Budget
	err := c.do(ctx, http.MethodGet, budgetPath(grantID), nil, &out)
	return out, err
}

func budgetPath(grantID string) string {
	return "/api/grants/" + url.PathEscape(grantID) + "/budget"
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", method, path, ErrTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return decodeValidation(resp.StatusCode, raw)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, ErrTransient)
	default:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
}

func decodeValidation(status int, raw []byte) error {
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &ValidationError{Status: status, Message: body.Error, Fields: body.Fields}
}
