package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventory/internal/apperr"
	"inventory/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products in row order.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("get all products: %w", apperr.StoreUnavailable(err))
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(ProductNotFoundMessage)
		}
		return nil, fmt.Errorf("get product %s: %w", id, apperr.StoreUnavailable(err))
	}
	return &product, nil
}

// Create validates the product, assigns it a new ID and inserts it.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	product.ID = uuid.New().String()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", apperr.StoreUnavailable(err))
	}
	return nil
}

// Update validates the product and overwrites the stored row with the same ID.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	// Select forces zero values to be written; Save would insert a missing row.
	res := r.db.WithContext(ctx).
		Model(product).
		Select("name", "quantity", "supplier").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("update product %s: %w", product.ID, apperr.StoreUnavailable(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product %s: %w", id, apperr.StoreUnavailable(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	return nil
}
