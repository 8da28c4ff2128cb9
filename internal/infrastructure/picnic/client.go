// Package picnic talks to the grocery vendor's tool bridge. The bridge
// exposes vendor operations as named tools behind a single POST endpoint;
// this client wraps the two tools the resolution pipeline needs and hides
// the envelope format from the rest of the system.
package picnic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/recipecart/backend/internal/domain"
)

// toolRequest is the bridge's request envelope.
type toolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// toolResponse is the bridge's response envelope. Tool output arrives as
// JSON text inside a content block.
type toolResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Client handles communication with the vendor tool bridge.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a bridge client. requestsPerSecond and burst bound the
// outbound call rate so recipe fan-out cannot trip the vendor's limits.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, burst int) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// SetDebug enables request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the sleep before retry attempt n (1-based).
func exponentialBackoff(attempt int) time.Duration {
	return 500 * time.Millisecond << (attempt - 1)
}

// callTool invokes one named tool and returns its unwrapped JSON payload.
// Transient failures are retried up to 3 times with exponential backoff.
func (c *Client) callTool(ctx context.Context, name string, arguments map[string]interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(toolRequest{Name: name, Arguments: arguments})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call-tool", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "RecipeCart/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.debug {
				log.Printf("[GATEWAY] %s request error (attempt %d): %v", name, attempt, err)
			}
			lastErr = err
			sleepBackoff(ctx, attempt)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[GATEWAY] %s status %d (attempt %d): %s", name, resp.StatusCode, attempt, string(body))
			}
			lastErr = fmt.Errorf("tool %s: status %d", name, resp.StatusCode)
			// Client errors other than 429 will not get better on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			sleepBackoff(ctx, attempt)
			continue
		}

		return unwrapToolPayload(body), nil
	}

	return nil, lastErr
}

// sleepBackoff waits out the backoff unless the context ends first.
func sleepBackoff(ctx context.Context, attempt int) {
	select {
	case <-time.After(exponentialBackoff(attempt)):
	case <-ctx.Done():
	}
}

// unwrapToolPayload extracts the tool's JSON output from the response
// envelope. Bodies that are not enveloped are passed through untouched.
func unwrapToolPayload(body []byte) json.RawMessage {
	var envelope toolResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, content := range envelope.Content {
			if content.Type == "text" && content.Text != "" {
				return json.RawMessage(content.Text)
			}
		}
	}
	return json.RawMessage(body)
}

// SearchProducts searches the vendor catalog. The raw hit shape varies by
// bridge version, so the payload goes through the adapter before anything
// downstream sees it.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	payload, err := c.callTool(ctx, "search_products", map[string]interface{}{"query": query})
	if err != nil {
		return nil, err
	}

	products := ParseSearchResults(payload)
	if c.debug {
		log.Printf("[GATEWAY] search_products %q -> %d hits", query, len(products))
	}
	return products, nil
}

// AddItem adds count units of a product to the vendor cart. The operation
// is additive; repeating it increases the quantity.
func (c *Client) AddItem(ctx context.Context, productID string, count int) error {
	if productID == "" {
		return domain.ErrInvalidRequest
	}
	if count < 1 {
		count = 1
	}

	_, err := c.callTool(ctx, "add_to_cart", map[string]interface{}{
		"productId": productID,
		"count":     count,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCartUnavailable, err)
	}
	return nil
}

// Health reports whether the bridge answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
