package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"inventory/internal/apperr"
	"inventory/internal/models"
)

// MemoryProductRepository is an in-memory implementation of
// ProductRepository. GetAll returns products in insertion order.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	order    []string
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		productList = append(productList, cloneProduct(r.products[id]))
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound(ProductNotFoundMessage)
	}
	product = cloneProduct(product)
	return &product, nil
}

// Create validates and adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = uuid.New().String()
	r.products[product.ID] = cloneProduct(*product)
	r.order = append(r.order, product.ID)
	return nil
}

// Update validates and replaces an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	delete(r.products, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// cloneProduct copies p so callers never share the stored quantity pointer.
func cloneProduct(p models.Product) models.Product {
	if p.Quantity != nil {
		q := *p.Quantity
		p.Quantity = &q
	}
	return p
}
