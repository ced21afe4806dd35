package ui

import (
	"context"

	"product-console/internal/model"
)

// ProductAPI defines the data-access operations the views depend on.
// *client.Client is the production implementation.
type ProductAPI interface {
	// GetAll retrieves every product in the catalog.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// VerifyID reports whether a product ID is already taken.
	VerifyID(ctx context.Context, id string) (bool, error)

	// Add creates a product and returns the created record.
	Add(ctx context.Context, product model.Product) (*model.Product, error)

	// Update replaces the product stored under id.
	Update(ctx context.Context, id string, product model.Product) (*model.Product, error)

	// Delete removes a product and returns the backend's confirmation.
	Delete(ctx context.Context, id string) (string, error)
}
