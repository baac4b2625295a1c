package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// storage handles de persistencia compartidos por los casos de uso.
type storage struct {
	txRunner  sales.TxRunner
	products  repository.ProductRepository
	sales     repository.SaleRepository
	analytics repository.AnalyticsRepository
	users     repository.UserRepository
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.App.Storage {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner:  store,
			products:  store.Products(),
			sales:     store.Sales(),
			analytics: store.Analytics(),
			users:     store.Users(),
			close:     func() {},
		}, nil

	case config.StoragePostgres:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &storage{
			txRunner:  postgres.NewTxRunner(pool),
			products:  postgres.NewProductRepository(pool),
			sales:     postgres.NewSaleRepository(pool),
			analytics: postgres.NewAnalyticsRepository(pool),
			users:     postgres.NewUserRepository(pool),
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.App.Storage)
}
