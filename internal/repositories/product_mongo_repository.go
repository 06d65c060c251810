package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inventory/internal/apperr"
	"inventory/internal/models"
)

// productDocument is the BSON shape of a product.
type productDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Quantity int                `bson:"quantity"`
	Supplier string             `bson:"supplier,omitempty"`
}

func newProductDocument(p *models.Product) productDocument {
	return productDocument{
		Name:     p.Name,
		Quantity: p.QuantityValue(),
		Supplier: p.Supplier,
	}
}

func (d productDocument) product() models.Product {
	quantity := d.Quantity
	return models.Product{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Quantity: &quantity,
		Supplier: d.Supplier,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
// IDs are ObjectID hex strings.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over the given collection.
func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

// GetAll returns every product in natural order.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("get all products: %w", apperr.StoreUnavailable(err))
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("get all products: %w", apperr.StoreUnavailable(err))
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}

// GetByID returns the product with the given ObjectID hex. A malformed id
// matches nothing.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an ObjectID, so no document can match.
		return nil, apperr.NotFound(ProductNotFoundMessage)
	}

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound(ProductNotFoundMessage)
		}
		return nil, fmt.Errorf("get product %s: %w", id, apperr.StoreUnavailable(err))
	}

	product := doc.product()
	return &product, nil
}

// Create validates and inserts the product, setting its ID.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	doc := newProductDocument(product)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create product: %w", apperr.StoreUnavailable(err))
	}

	product.ID = doc.ID.Hex()
	return nil
}

// Update validates the product and replaces the stored document.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		// Not an ObjectID, so no document can match.
		return apperr.NotFound(ProductNotFoundMessage)
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, newProductDocument(product))
	if err != nil {
		return fmt.Errorf("update product %s: %w", product.ID, apperr.StoreUnavailable(err))
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	return nil
}

// Delete removes the product with the given ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an ObjectID, so no document can match.
		return apperr.NotFound(ProductNotFoundMessage)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, apperr.StoreUnavailable(err))
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(ProductNotFoundMessage)
	}
	return nil
}
