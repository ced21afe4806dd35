// Package client is the data-access gateway for the remote products API.
// It translates CRUD intents into HTTP calls against the /bp/products
// resource, unwraps envelope payloads, and normalises every failure into a
// *model.TransportError so callers only ever see a message string.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"product-console/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const resourcePath = "/bp/products"

// Client talks to the products API.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  zerolog.Logger
}

// New creates a products API client. baseURL is the server root without the
// resource path, e.g. "http://localhost:3002".
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "client").Logger(),
	}
}

type listEnvelope struct {
	Data []model.Product `json:"data"`
}

type mutationEnvelope struct {
	Message string        `json:"message"`
	Data    model.Product `json:"data"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// productBody is the update payload: a product with the immutable ID
// stripped out.
type productBody struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Logo         string     `json:"logo"`
	DateRelease  model.Date `json:"date_release"`
	DateRevision model.Date `json:"date_revision"`
}

// GetAll retrieves every product, unwrapping the {data: [...]} envelope.
func (c *Client) GetAll(ctx context.Context) ([]model.Product, error) {
	var envelope listEnvelope
	if err := c.do(ctx, http.MethodGet, resourcePath, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// GetByID retrieves a single product. The payload is bare, no envelope.
// A 404 response is reported as model.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, resourcePath+"/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// VerifyID reports whether a product with the given ID already exists. The
// endpoint returns a bare boolean. Failures are not normalised: the check
// is advisory and callers decide how to degrade.
func (c *Client) VerifyID(ctx context.Context, id string) (bool, error) {
	url := c.baseURL + resourcePath + "/verification/" + id

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verification returned status %d", resp.StatusCode)
	}

	var exists bool
	if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}

	c.logger.Debug().Str("product_id", id).Bool("exists", exists).Msg("verified product id")
	return exists, nil
}

// Add creates a product and returns the created record from the
// {message, data} envelope.
func (c *Client) Add(ctx context.Context, product model.Product) (*model.Product, error) {
	var envelope mutationEnvelope
	if err := c.do(ctx, http.MethodPost, resourcePath, product, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Update replaces the product stored under id. The request body carries the
// product without its ID, which is immutable.
func (c *Client) Update(ctx context.Context, id string, product model.Product) (*model.Product, error) {
	body := productBody{
		Name:         product.Name,
		Description:  product.Description,
		Logo:         product.Logo,
		DateRelease:  product.DateRelease,
		DateRevision: product.DateRevision,
	}

	var envelope mutationEnvelope
	if err := c.do(ctx, http.MethodPut, resourcePath+"/"+id, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Delete removes the product stored under id and returns the backend's
// confirmation message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var envelope messageEnvelope
	if err := c.do(ctx, http.MethodDelete, resourcePath+"/"+id, nil, &envelope); err != nil {
		return "", err
	}
	return envelope.Message, nil
}

// do performs one API round trip and decodes the JSON response into out.
// Any transport or status failure comes back as a *model.TransportError
// (or model.ErrNotFound for a 404), never as a raw HTTP error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + path
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return model.NewTransportError(fmt.Sprintf("failed to encode request body: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return model.NewTransportError(fmt.Sprintf("failed to build request: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("request failed")
		return model.NewTransportError(fmt.Sprintf("request to products API failed: %v", err))
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("api request")

	if resp.StatusCode == http.StatusNotFound {
		return model.ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.NewTransportError(c.errorMessage(resp))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Msg("failed to decode response")
		return model.NewTransportError(fmt.Sprintf("failed to decode products API response: %v", err))
	}

	return nil
}

// errorMessage extracts a human-readable message from an error response
// body, falling back to the HTTP status.
func (c *Client) errorMessage(resp *http.Response) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fmt.Sprintf("products API returned status %d", resp.StatusCode)
}
