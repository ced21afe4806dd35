// Package integration exercises the API client against a stub products
// backend served over real HTTP. The stub mimics the /bp/products contract:
// envelope shapes, status codes, and the verification endpoint.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"product-console/internal/model"
)

// StubBackend is an in-memory products API.
type StubBackend struct {
	mu       sync.Mutex
	products map[string]model.Product
}

// StartStubAPI serves a stub products backend on a local listener and
// returns it alongside its base URL. The server shuts down with the test.
func StartStubAPI(t *testing.T) (*StubBackend, string) {
	t.Helper()

	backend := &StubBackend{products: make(map[string]model.Product)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /bp/products", backend.handleList)
	mux.HandleFunc("POST /bp/products", backend.handleCreate)
	mux.HandleFunc("GET /bp/products/verification/{id}", backend.handleVerify)
	mux.HandleFunc("GET /bp/products/{id}", backend.handleGet)
	mux.HandleFunc("PUT /bp/products/{id}", backend.handleUpdate)
	mux.HandleFunc("DELETE /bp/products/{id}", backend.handleDelete)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return backend, server.URL
}

// Seed loads products into the store, replacing any previous contents.
func (b *StubBackend) Seed(products ...model.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.products = make(map[string]model.Product, len(products))
	for _, p := range products {
		b.products[p.ID] = p
	}
}

// Count reports how many products the store holds.
func (b *StubBackend) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.products)
}

func (b *StubBackend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	products := make([]model.Product, 0, len(b.products))
	for _, p := range b.products {
		products = append(products, p)
	}
	b.mu.Unlock()

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	writeJSON(w, http.StatusOK, map[string]any{"data": products})
}

func (b *StubBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	product, ok := b.products[r.PathValue("id")]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (b *StubBackend) handleVerify(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	_, exists := b.products[r.PathValue("id")]
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, exists)
}

func (b *StubBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.products[product.ID]; exists {
		writeError(w, http.StatusBadRequest, "Duplicate identifier found in the body")
		return
	}
	b.products[product.ID] = product

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product added successfully",
		"data":    product,
	})
}

func (b *StubBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.products[id]; !exists {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	product.ID = id
	b.products[id] = product

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"data":    product,
	})
}

func (b *StubBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.products[id]; !exists {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	delete(b.products, id)

	writeJSON(w, http.StatusOK, map[string]any{"message": "Product removed successfully"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
