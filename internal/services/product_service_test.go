package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory/internal/apperr"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/services"
	"inventory/pkg/ptr"
)

func payload(t *testing.T, body string) models.ProductPayload {
	t.Helper()
	var p models.ProductPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func newProductService(repo *MockProductRepository, pub services.EventPublisher, merge models.MergePolicy) *services.ProductService {
	return services.NewProductService(repo, pub, merge, logger.Discard())
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, models.MergeTruthy)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Quantity: ptr.New(10)},
		{ID: "2", Name: "Product B", Quantity: ptr.New(0), Supplier: "Acme"},
	}
	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedProducts, products)

	mockRepo.On("GetAll", mock.Anything).Return(nil, apperr.StoreUnavailable(errors.New("DB Error"))).Once()
	_, err = service.ListProducts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "DB Error", apperr.Message(err))
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newProductService(mockRepo, mockPub, models.MergeTruthy)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Widget" && p.QuantityValue() == 0 && p.Supplier == "Acme"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = "new-id"
	}).Return(nil).Once()

	var published []byte
	mockPub.On("Publish", services.EventProductCreated, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]byte)
	}).Return(nil).Once()

	// Create applies every present field, so an explicit zero quantity is kept.
	product, err := service.CreateProduct(context.Background(), payload(t, `{"name":"Widget","quantity":0,"supplier":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "new-id", product.ID)
	require.NotNil(t, product.Quantity)
	assert.Equal(t, 0, *product.Quantity)

	var event services.ProductEvent
	require.NoError(t, json.Unmarshal(published, &event))
	assert.Equal(t, services.EventProductCreated, event.Type)
	assert.Equal(t, "new-id", event.Product.ID)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_CreateProduct_Failure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newProductService(mockRepo, mockPub, models.MergeTruthy)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(apperr.Validation("Product validation failed: name: field is required")).Once()

	_, err := service.CreateProduct(context.Background(), payload(t, `{"quantity":1}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	mockPub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct_Truthy(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, models.MergeTruthy)

	stored := &models.Product{ID: "1", Name: "Widget", Quantity: ptr.New(4), Supplier: "Acme"}
	mockRepo.On("GetByID", mock.Anything, "1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "1",
		payload(t, `{"name":"Gadget","quantity":0,"supplier":""}`))
	require.NoError(t, err)
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, 4, updated.QuantityValue())
	assert.Equal(t, "Acme", updated.Supplier)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_Presence(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, models.MergePresence)

	stored := &models.Product{ID: "1", Name: "Widget", Quantity: ptr.New(4), Supplier: "Acme"}
	mockRepo.On("GetByID", mock.Anything, "1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "1", payload(t, `{"quantity":0,"supplier":""}`))
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 0, updated.QuantityValue())
	assert.Empty(t, updated.Supplier)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, models.MergeTruthy)

	mockRepo.On("GetByID", mock.Anything, "99").Return(nil, apperr.NotFound("Product not found")).Once()

	_, err := service.UpdateProduct(context.Background(), "99", payload(t, `{"name":"X"}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newProductService(mockRepo, mockPub, models.MergeTruthy)

	stored := &models.Product{ID: "1", Name: "Widget", Quantity: ptr.New(4)}
	mockRepo.On("GetByID", mock.Anything, "1").Return(stored, nil).Once()
	mockRepo.On("Delete", mock.Anything, "1").Return(nil).Once()
	// A broker failure is logged and never fails the request.
	mockPub.On("Publish", services.EventProductDeleted, mock.Anything).Return(errors.New("channel closed")).Once()

	require.NoError(t, service.DeleteProduct(context.Background(), "1"))

	mockRepo.On("GetByID", mock.Anything, "1").Return(nil, apperr.NotFound("Product not found")).Once()
	err := service.DeleteProduct(context.Background(), "1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NameOnly(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, models.MergeTruthy)

	stored := &models.Product{ID: "1", Name: "Widget", Quantity: ptr.New(4), Supplier: "Acme"}
	mockRepo.On("GetByID", mock.Anything, "1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "1", payload(t, `{"name":"Widget Pro"}`))
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, 4, updated.QuantityValue())
	assert.Equal(t, "Acme", updated.Supplier)
}

func TestProductService_UpdateProduct_LookupBeforeCoercion(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, models.MergeTruthy)

	mockRepo.On("GetByID", mock.Anything, "99").Return(nil, apperr.NotFound("Product not found")).Once()

	_, err := service.UpdateProduct(context.Background(), "99", payload(t, `{"quantity":"abc"}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	stored := &models.Product{ID: "1", Name: "Widget", Quantity: ptr.New(4)}
	mockRepo.On("GetByID", mock.Anything, "1").Return(stored, nil).Once()

	_, err = service.UpdateProduct(context.Background(), "1", payload(t, `{"quantity":"abc"}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
