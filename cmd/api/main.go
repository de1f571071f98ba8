// @title           Saradnja API
// @version         1.0
// @description     Colaboración B2B entre importadores y proveedores: catálogo, solicitudes y visibilidad.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/saradnja-api/docs"
	"github.com/jhoicas/saradnja-api/internal/application/auth"
	"github.com/jhoicas/saradnja-api/internal/application/collaboration"
	"github.com/jhoicas/saradnja-api/internal/application/usecase"
	"github.com/jhoicas/saradnja-api/internal/application/visibility"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/backend"
	httpRouter "github.com/jhoicas/saradnja-api/internal/interfaces/http"
	"github.com/jhoicas/saradnja-api/pkg/config"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.Close()

	authUC := auth.NewAuthUseCase(store.Repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(store.Repos.Users)
	categoryUC := usecase.NewCategoryUseCase(store.Repos.Categories)
	productUC := usecase.NewProductUseCase(store.Repos.Products, store.Visibility, store.Tx)
	engine := collaboration.NewEngine(store.Repos.Collaborations, store.Tx)
	facade := visibility.NewFacade(store.Visibility, store.Repos.Products)

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		CategoryUC:     categoryUC,
		ProductUC:      productUC,
		Collaborations: engine,
		Visibility:     facade,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			MaxAge: time.Duration(cfg.JWT.Expiration) * time.Minute,
		},
		AppName: cfg.App.Name,
	}, log)

	// Documento OpenAPI registrado por el paquete docs.
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		c.Type("json")
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	// Swagger UI en local: http://localhost:<port>/docs (el middleware exige el archivo)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Saradnja API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger UI deshabilitado: archivo no encontrado")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
