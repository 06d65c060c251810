package handlers

import (
	"bytes"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"inventory/internal/models"
	"inventory/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the product routes under /products. mw runs
// before every product route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, mw ...fiber.Handler) {
	productRoutes := router.Group("/products", mw...)
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList returns every product.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.productService.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, productErrorStatus(err), "list products", err)
	}
	return c.JSON(products)
}

// HandleCreate creates a product from the request body.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	payload, err := parseProductPayload(c)
	if err != nil {
		return badRequest(c, h.logger, "create product", err)
	}

	product, err := h.productService.CreateProduct(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, productErrorStatus(err), "create product", err)
	}

	h.logger.Info("product created", slog.String("id", product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate merges the request body into the product with the given ID.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")

	payload, err := parseProductPayload(c)
	if err != nil {
		return badRequest(c, h.logger, "update product", err)
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), id, payload)
	if err != nil {
		return respondError(c, h.logger, productErrorStatus(err), "update product", err)
	}

	return c.JSON(product)
}

// HandleDelete removes the product with the given ID.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.productService.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, productErrorStatus(err), "delete product", err)
	}

	h.logger.Info("product deleted", slog.String("id", id))
	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}

// parseProductPayload decodes the JSON body. An empty body is an empty
// payload.
func parseProductPayload(c *fiber.Ctx) (models.ProductPayload, error) {
	var payload models.ProductPayload
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return payload, nil
	}
	if err := c.BodyParser(&payload); err != nil {
		return models.ProductPayload{}, err
	}
	return payload, nil
}
