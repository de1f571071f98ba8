// Package backend arma los adaptadores de persistencia según DB_DRIVER.
package backend

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/saradnja-api/internal/domain/repository"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/memory"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/saradnja-api/pkg/config"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

// Backend puertos listos para inyectar en los casos de uso.
type Backend struct {
	Repos      repository.Repos
	Visibility repository.VisibilityRepository
	Tx         repository.TxRunner

	// Pool solo con el driver postgres.
	Pool  *pgxpool.Pool
	close func()
}

// Close libera las conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta con el driver configurado. Con postgres y AutoMigrate aplica las migraciones.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al detener el proceso")
		store := memory.NewStore()
		return &Backend{
			Repos:      store.Repos(),
			Visibility: store.Visibility(),
			Tx:         store.TxRunner(),
		}, nil
	case config.DriverPostgres, "":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Backend{
			Repos: repository.Repos{
				Users:          postgres.NewUserRepository(pool),
				Categories:     postgres.NewCategoryRepository(pool),
				Products:       postgres.NewProductRepository(pool),
				Collaborations: postgres.NewCollaborationRepository(pool),
			},
			Visibility: postgres.NewVisibilityRepository(pool),
			Tx:         postgres.NewTxRunner(pool),
			Pool:       pool,
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("backend: driver desconocido %q", cfg.Driver)
	}
}
