// Package app assembles the Fiber application from its dependencies.
package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"inventory/internal/config"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/services"
	"inventory/internal/store"
)

// Deps are the collaborators of the HTTP application.
type Deps struct {
	Config config.Config
	Logger *slog.Logger
	Store  *store.Store
	// Publisher receives product events; nil disables them.
	Publisher services.EventPublisher
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog io.Writer
}

// App is the assembled HTTP application.
type App struct {
	*fiber.App
	Auth *services.AuthService
}

// New builds the Fiber app with every route and middleware registered.
func New(deps Deps) *App {
	cfg := deps.Config
	log := deps.Logger

	fiberApp := fiber.New(fiber.Config{
		AppName:               "inventory",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	fiberApp.Use(recover.New())
	if deps.AccessLog != nil {
		fiberApp.Use(logger.New(logger.Config{Output: deps.AccessLog}))
	}
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	productService := services.NewProductService(deps.Store.Products, deps.Publisher, cfg.UpdateMerge, log)
	authService := services.NewAuthService(deps.Store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)

	handlers.NewHealthHandler(deps.Store, deps.Store.Driver, log).RegisterRoutes(fiberApp)

	api := fiberApp.Group("/api")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(api)

	var productMiddleware []fiber.Handler
	if cfg.Auth.Required {
		productMiddleware = append(productMiddleware, middleware.AuthRequired(authService, log))
	}
	handlers.NewProductHandler(productService, log).RegisterRoutes(api, productMiddleware...)

	return &App{App: fiberApp, Auth: authService}
}

// errorHandler renders errors that escape the handlers as {message}.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}

		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}
