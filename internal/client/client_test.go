package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-console/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second, zerolog.Nop())
}

func sampleProduct() model.Product {
	return model.Product{
		ID:           "trj-crd",
		Name:         "Tarjeta de Credito",
		Description:  "Tarjeta de consumo bajo modalidad credito",
		Logo:         "https://example.com/logo.png",
		DateRelease:  model.NewDate(2025, 1, 1),
		DateRevision: model.NewDate(2026, 1, 1),
	}
}

func TestClient_GetAll(t *testing.T) {
	products := []model.Product{sampleProduct()}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bp/products", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		json.NewEncoder(w).Encode(map[string]any{"data": products})
	})

	got, err := c.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "trj-crd", got[0].ID)
	assert.Equal(t, "2025-01-01", got[0].DateRelease.String())
}

func TestClient_GetAll_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // force a connection error

	c := New(server.URL, time.Second, zerolog.Nop())

	_, err := c.GetAll(context.Background())
	require.Error(t, err)

	var transportErr *model.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, transportErr.Message, "request to products API failed")
}

func TestClient_GetByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bp/products/trj-crd", r.URL.Path)
		// Bare payload, no envelope, RFC 3339 dates like the real backend.
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "trj-crd",
			"name":          "Tarjeta de Credito",
			"description":   "Tarjeta de consumo bajo modalidad credito",
			"logo":          "https://example.com/logo.png",
			"date_release":  "2025-01-01T00:00:00.000Z",
			"date_revision": "2026-01-01T00:00:00.000Z",
		})
	})

	got, err := c.GetByID(context.Background(), "trj-crd")
	require.NoError(t, err)
	assert.Equal(t, "Tarjeta de Credito", got.Name)
	assert.Equal(t, "2025-01-01", got.DateRelease.String())
	assert.Equal(t, "2026-01-01", got.DateRevision.String())
}

func TestClient_GetByID_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestClient_VerifyID(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		exists bool
	}{
		{name: "id exists", body: "true", exists: true},
		{name: "id free", body: "false", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/bp/products/verification/trj-crd", r.URL.Path)
				w.Write([]byte(tt.body))
			})

			exists, err := c.VerifyID(context.Background(), "trj-crd")
			require.NoError(t, err)
			assert.Equal(t, tt.exists, exists)
		})
	}
}

func TestClient_VerifyID_FailureIsNotNormalised(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.VerifyID(context.Background(), "trj-crd")
	require.Error(t, err)

	var transportErr *model.TransportError
	assert.False(t, errors.As(err, &transportErr), "verification errors stay raw")
}

func TestClient_Add(t *testing.T) {
	product := sampleProduct()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var received model.Product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, product.ID, received.ID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Product added successfully",
			"data":    received,
		})
	})

	created, err := c.Add(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, product.ID, created.ID)
	assert.Equal(t, product.Name, created.Name)
}

func TestClient_Update_OmitsID(t *testing.T) {
	product := sampleProduct()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bp/products/trj-crd", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id", "update body must not carry the immutable id")
		assert.Equal(t, product.Name, body["name"])

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Product updated successfully",
			"data":    product,
		})
	})

	updated, err := c.Update(context.Background(), "trj-crd", product)
	require.NoError(t, err)
	assert.Equal(t, "trj-crd", updated.ID)
}

func TestClient_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bp/products/trj-crd", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"message": "Product removed successfully"})
	})

	message, err := c.Delete(context.Background(), "trj-crd")
	require.NoError(t, err)
	assert.Equal(t, "Product removed successfully", message)
}

func TestClient_ErrorMessageFromBody(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "message field",
			status:   http.StatusBadRequest,
			body:     `{"message": "Invalid body"}`,
			expected: "Invalid body",
		},
		{
			name:     "error field",
			status:   http.StatusInternalServerError,
			body:     `{"error": "something broke"}`,
			expected: "something broke",
		},
		{
			name:     "opaque body falls back to status",
			status:   http.StatusBadGateway,
			body:     "<html>gateway error</html>",
			expected: "products API returned status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetAll(context.Background())
			require.Error(t, err)

			var transportErr *model.TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, tt.expected, transportErr.Message)
		})
	}
}
