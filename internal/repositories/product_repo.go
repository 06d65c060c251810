package repositories

import (
	"context"

	"inventory/internal/models"
)

// ProductNotFoundMessage is the message of the error returned when an id
// has no matching product.
const ProductNotFoundMessage = "Product not found"

// ProductRepository defines the interface for product data access.
//
// Implementations validate records against the store schema before every
// write and return *apperr.Error values classified by kind.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
