// admin herramientas de operación: migraciones y datos iniciales.
//
// Uso:
//
//	go run ./cmd/admin migrate
//	go run ./cmd/admin seed --admin-email admin@example.com --admin-password secreto --demo
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/saradnja-api/internal/infrastructure/backend"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/saradnja-api/pkg/config"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Herramientas de operación de saradnja-api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newSeedCommand())
	return root
}

// env carga configuración y logger comunes a todos los subcomandos.
func env() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "saradnja-admin"})
	return cfg, log, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := env()
			if err != nil {
				return err
			}
			if cfg.DB.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requiere DB_DRIVER=%s", config.DriverPostgres)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
				return err
			}
			log.Info().Msg("migraciones aplicadas")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el administrador y, opcionalmente, datos de demostración",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := env()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, err := backend.Open(ctx, cfg.DB, log)
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := seed(ctx, store.Repos, opts)
			if err != nil {
				return err
			}
			log.Info().
				Int("users_created", report.UsersCreated).
				Int("users_skipped", report.UsersSkipped).
				Int("categories_created", report.CategoriesCreated).
				Msg("seed completado")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "email del administrador (obligatorio)")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "contraseña del administrador (obligatoria)")
	cmd.Flags().StringVar(&opts.AdminName, "admin-name", "Administrador", "nombre del administrador")
	cmd.Flags().BoolVar(&opts.Demo, "demo", false, "agrega un importador, un proveedor y categorías de ejemplo")
	cmd.Flags().StringVar(&opts.DemoPassword, "demo-password", "demo1234", "contraseña de los usuarios de demostración")
	_ = cmd.MarkFlagRequired("admin-email")
	_ = cmd.MarkFlagRequired("admin-password")
	return cmd
}
