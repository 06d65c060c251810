package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	merge     models.MergePolicy
	logger    *slog.Logger
	now       func() time.Time
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(
	repo repositories.ProductRepository,
	publisher EventPublisher,
	merge models.MergePolicy,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		merge:     merge,
		logger:    logger,
		now:       time.Now,
	}
}

// ListProducts retrieves all products in store order.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CreateProduct stores a new product built from every supplied field.
// Coercion failures are KindValidation errors.
func (s *ProductService) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error) {
	fields, err := payload.Fields()
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	product := &models.Product{}
	applyFields(product, fields, models.MergePresence)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(EventProductCreated, *product)
	return product, nil
}

// UpdateProduct merges the payload into the stored product under the
// configured merge policy and persists the result. The payload is coerced
// after the lookup.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, payload models.ProductPayload) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	fields, err := payload.Fields()
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	applyFields(product, fields, s.merge)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.publish(EventProductUpdated, *product)
	return product, nil
}

// DeleteProduct removes the product with the given ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.publish(EventProductDeleted, *product)
	return nil
}

func applyFields(p *models.Product, fields models.ProductFields, merge models.MergePolicy) {
	if fields.Name.Applies(merge) {
		p.Name = fields.Name.Value
	}
	if fields.Quantity.Applies(merge) {
		q := fields.Quantity.Value
		p.Quantity = &q
	}
	if fields.Supplier.Applies(merge) {
		p.Supplier = fields.Supplier.Value
	}
}

// publish sends the event without failing the request that caused it.
func (s *ProductService) publish(eventType string, product models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := ProductEvent{Type: eventType, Product: product, OccurredAt: s.now().UTC()}.marshal()
	if err != nil {
		s.logger.Error("failed to encode product event", slog.String("type", eventType), slog.Any("error", err))
		return
	}

	if err := s.publisher.Publish(eventType, body); err != nil {
		s.logger.Warn("failed to publish product event",
			slog.String("type", eventType),
			slog.String("product_id", product.ID),
			slog.Any("error", err))
	}
}
