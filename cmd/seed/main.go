// seed crea las cuentas iniciales (director y cajero) y opcionalmente importa
// un catálogo de productos desde CSV.
//
// Uso: go run ./cmd/seed [-catalog productos.csv] [-encoding cp1251]
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/cache"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

func main() {
	catalogPath := flag.String("catalog", "", "CSV de productos (separador ';')")
	encoding := flag.String("encoding", "utf-8", "codificación del CSV: utf-8, cp1251, latin1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Named("seed")

	ctx := context.Background()
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), cache.NewMemoryTokenBlacklist(), auth.JWTConfig{})
	accounts := []struct{ username, password, role, fullName string }{
		{cfg.Seed.DirectorUsername, cfg.Seed.DirectorPassword, entity.RoleDirector, cfg.Seed.DirectorFullName},
		{cfg.Seed.CashierUsername, cfg.Seed.CashierPassword, entity.RoleCashier, cfg.Seed.CashierFullName},
	}
	for _, a := range accounts {
		created, err := authUC.EnsureUser(ctx, a.username, a.password, a.role, a.fullName)
		if err != nil {
			log.Fatal().Err(err).Str("username", a.username).Msg("crear usuario")
		}
		log.Info().Str("username", a.username).Str("role", a.role).Bool("created", created).Msg("usuario inicial")
	}

	if *catalogPath == "" {
		return
	}
	imported, skipped, err := importCatalog(ctx, postgres.NewProductRepository(pool), *catalogPath, *encoding)
	if err != nil {
		log.Fatal().Err(err).Str("file", *catalogPath).Msg("importar catálogo")
	}
	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("catálogo importado")
}

// importCatalog crea los productos del CSV. Un producto con el mismo nombre y artículo se omite.
func importCatalog(ctx context.Context, repo repository.ProductRepository, path, encoding string) (imported, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	r, err := decodeReader(f, encoding)
	if err != nil {
		return 0, 0, err
	}
	rows, err := parseCatalog(r)
	if err != nil {
		return 0, 0, err
	}

	products := usecase.NewProductUseCase(repo)
	for _, row := range rows {
		existing, err := repo.List(ctx, repository.ProductFilter{NameQuery: row.Name})
		if err != nil {
			return imported, skipped, err
		}
		if containsProduct(existing, row.Name, row.Article) {
			skipped++
			continue
		}
		if _, err := products.Create(ctx, row); err != nil {
			return imported, skipped, err
		}
		imported++
	}
	return imported, skipped, nil
}

func containsProduct(list []*entity.Product, name, article string) bool {
	for _, p := range list {
		if strings.EqualFold(p.Name, name) && p.Article == article {
			return true
		}
	}
	return false
}
