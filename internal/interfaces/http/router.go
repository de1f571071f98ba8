package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/saradnja-api/internal/application/auth"
	"github.com/jhoicas/saradnja-api/internal/application/collaboration"
	"github.com/jhoicas/saradnja-api/internal/application/usecase"
	"github.com/jhoicas/saradnja-api/internal/application/visibility"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CategoryUC     *usecase.CategoryUseCase
	ProductUC      *usecase.ProductUseCase
	Collaborations *collaboration.Engine
	Visibility     *visibility.Facade
	Cookie         CookieConfig
	AppName        string
}

// NewApp crea la aplicación fiber con el manejador de errores global, los middlewares
// comunes, /health y las rutas de la API.
func NewApp(deps RouterDeps, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Rutas protegidas (cookie de sesión o Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC, deps.Cookie.Name))
	protected.Get("/auth/me", authHandler.Me)

	// Users (ADMIN)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Patch("/:id/status", userHandler.SetStatus)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Post("/", categoryHandler.Create)
	categories.Patch("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Post("/", productHandler.Create)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Collaborations
	collabHandler := NewCollaborationHandler(deps.Collaborations)
	collabs := protected.Group("/collaborations")
	collabs.Post("/", collabHandler.Request)
	collabs.Get("/", collabHandler.List)
	collabs.Get("/:id", collabHandler.Get)
	collabs.Patch("/:id", collabHandler.Patch)
	collabs.Delete("/:id", collabHandler.Delete)
	collabs.Post("/:id/confirm", collabHandler.Confirm)
	collabs.Post("/:id/terminate", collabHandler.Terminate)

	// Vistas por rol
	visHandler := NewVisibilityHandler(deps.Visibility)
	importer := protected.Group("/importer", RequireRole(entity.RoleImporter))
	importer.Get("/suppliers", visHandler.MySuppliers)
	importer.Get("/suppliers/available", visHandler.AvailableSuppliers)
	importer.Get("/suppliers/:supplierId/products", visHandler.SupplierProducts)
	importer.Get("/products", visHandler.Products)

	supplier := protected.Group("/supplier", RequireRole(entity.RoleSupplier))
	supplier.Get("/products", visHandler.OwnCatalog)
}
