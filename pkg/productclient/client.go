// Package productclient is an HTTP client for the product API.
package productclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// Product is a product as returned by the API.
type Product struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Supplier string `json:"supplier,omitempty"`
}

// Input is the body of a create or update request. Quantity is sent as
// the text the user typed; the server coerces it to a number.
type Input struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Supplier string `json:"supplier"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("product api: %d: %s", e.Status, e.Message)
}

// Client calls the product endpoints under baseURL.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *fiber.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken attaches "Authorization: Bearer <token>" to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every request that has no earlier context deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the API served at baseURL, e.g.
// "http://localhost:5001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		http:    &fiber.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every product.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, c.http.Get(c.url("")), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create creates a product.
func (c *Client) Create(ctx context.Context, in Input) (*Product, error) {
	var product Product
	if err := c.do(ctx, c.http.Post(c.url("")), in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update merges in into the product with the given ID.
func (c *Client) Update(ctx context.Context, id string, in Input) (*Product, error) {
	var product Product
	if err := c.do(ctx, c.http.Put(c.url(id)), in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes the product with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, c.http.Delete(c.url(id)), nil, nil)
}

func (c *Client) url(id string) string {
	if id == "" {
		return c.baseURL + "/api/products"
	}
	return c.baseURL + "/api/products/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, body any, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			fiber.ReleaseAgent(agent)
			return context.DeadlineExceeded
		}
	}
	agent.Timeout(timeout)

	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		agent.JSON(body)
	}

	status, data, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("product api request: %w", errors.Join(errs...))
	}

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		apiErr := &APIError{Status: status}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode product api response: %w", err)
	}
	return nil
}
