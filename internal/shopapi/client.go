// Package shopapi reads externally owned facts (shops, menus, users) over
// HTTP. It is the only network dependency of the write path.
package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the remote side has no such entity.
var ErrNotFound = errors.New("shopapi: not found")

// TransportError marks a dependency failure (network error or bad status).
// It is a distinct kind from domain faults so callers can tell "business rule
// violated" from "dependency unavailable".
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shopapi: %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("shopapi: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RetryPolicy bounds transport retries: MaxAttempts total tries with a fixed
// Delay between them. No backoff, no circuit breaker.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy retries exactly once after a short fixed delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Delay: 300 * time.Millisecond}
}

type ShopFacts struct {
	Open                bool
	MinOrderAmountCents int64
}

type Option struct {
	ID         int
	Name       string
	PriceCents int64
}

type MenuFacts struct {
	ID             string
	Name           string
	Description    string
	BasePriceCents int64
	Open           bool
	Options        []Option
}

type Client struct {
	baseURL string
	http    *http.Client
	retry   RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(baseURL string, httpClient *http.Client, retry RetryPolicy) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		retry:   retry,
		sleep:   sleepCtx,
	}
}

// WithSleep overrides the retry delay function; tests use it to avoid real
// waits.
func (c *Client) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Client {
	c.sleep = sleep
	return c
}

type shopEnvelope struct {
	Shop *struct {
		Open           bool            `json:"open"`
		MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	} `json:"shop"`
}

// ShopFacts reports whether a shop is open and its minimum order amount.
// A missing body or shop field means closed, not an error.
func (c *Client) ShopFacts(ctx context.Context, shopID string) (ShopFacts, error) {
	var env shopEnvelope
	status, err := c.getJSON(ctx, fmt.Sprintf("/shops/%s", shopID), &env)
	if err != nil {
		return ShopFacts{}, err
	}
	if status == http.StatusNotFound || env.Shop == nil {
		return ShopFacts{Open: false}, nil
	}
	cents := env.Shop.MinOrderAmount.Mul(decimal.NewFromInt(100)).IntPart()
	return ShopFacts{Open: env.Shop.Open, MinOrderAmountCents: cents}, nil
}

type menuEnvelope struct {
	Menu *struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		BasePriceCents int64  `json:"basePrice"`
		Open           bool   `json:"open"`
		OptionGroups   []struct {
			Options []wireOption `json:"options"`
		} `json:"optionGroups"`
	} `json:"menu"`
}

type wireOption struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
}

// MenuFacts fetches one menu with its options flattened across groups.
// Option ids are assigned positionally, 1-based, over the flattened list;
// carts and order snapshots share this assignment.
func (c *Client) MenuFacts(ctx context.Context, shopID, menuID string) (MenuFacts, error) {
	var env menuEnvelope
	status, err := c.getJSON(ctx, fmt.Sprintf("/shops/%s/menus/%s", shopID, menuID), &env)
	if err != nil {
		return MenuFacts{}, err
	}
	if status == http.StatusNotFound || env.Menu == nil {
		return MenuFacts{}, ErrNotFound
	}

	facts := MenuFacts{
		ID:             env.Menu.ID,
		Name:           env.Menu.Name,
		Description:    env.Menu.Description,
		BasePriceCents: env.Menu.BasePriceCents,
		Open:           env.Menu.Open,
	}
	id := 0
	for _, group := range env.Menu.OptionGroups {
		for _, opt := range group.Options {
			id++
			facts.Options = append(facts.Options, Option{ID: id, Name: opt.Name, PriceCents: opt.PriceCents})
		}
	}
	return facts, nil
}

type optionsEnvelope struct {
	Options []wireOption `json:"options"`
}

// MenuOptions fetches the flattened option list of a menu. Groups are not
// distinguished at this endpoint.
func (c *Client) MenuOptions(ctx context.Context, shopID, menuID string) ([]Option, error) {
	var env optionsEnvelope
	status, err := c.getJSON(ctx, fmt.Sprintf("/shops/%s/menus/%s/options", shopID, menuID), &env)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	out := make([]Option, 0, len(env.Options))
	for i, opt := range env.Options {
		out = append(out, Option{ID: i + 1, Name: opt.Name, PriceCents: opt.PriceCents})
	}
	return out, nil
}

type userEnvelope struct {
	ID *string `json:"id"`
}

// UserIsValid reports whether the user exists. Presence of a non-null id
// field means valid.
func (c *Client) UserIsValid(ctx context.Context, userID string) (bool, error) {
	var env userEnvelope
	status, err := c.getJSON(ctx, fmt.Sprintf("/users/%s", userID), &env)
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	return env.ID != nil && *env.ID != "", nil
}

// getJSON performs a GET with the client's retry policy. Transport-level
// failures (request errors and 5xx) are retried; 404 is handed back to the
// per-endpoint caller via the status.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (int, error) {
	op := "GET " + path
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.retry.Delay); err != nil {
				return 0, err
			}
		}

		status, err := c.tryGet(ctx, path, out)
		if err == nil {
			return status, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
	}
	var te *TransportError
	if errors.As(lastErr, &te) {
		return 0, lastErr
	}
	return 0, &TransportError{Op: op, Err: lastErr}
}

func (c *Client) tryGet(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &TransportError{Op: "GET " + path, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// An empty or malformed body on 2xx is treated as an absent
		// envelope, matching the provider's loose contract.
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return resp.StatusCode, nil
	}
	return resp.StatusCode, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
