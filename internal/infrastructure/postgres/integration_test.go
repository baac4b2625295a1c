//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-pos/pkg/config"
)

// newTestPool levanta PostgreSQL 16 en un contenedor y aplica las migraciones embebidas.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tienda_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "iniciar contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.Migrate(dsn))
	require.NoError(t, postgres.Migrate(dsn), "segunda ejecución sin cambios")

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createProduct(t *testing.T, pool *pgxpool.Pool, price, discount string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:          "Crema " + price,
		Category:      "Cosmética",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	if discount != "" {
		d := decimal.RequireFromString(discount)
		p.DiscountPrice = &d
	}
	require.NoError(t, postgres.NewProductRepository(pool).Create(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestPostgres_VentaConDescuentoYReportes(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	crema := createProduct(t, pool, "100.00", "75.00", 10)
	jabon := createProduct(t, pool, "20.00", "", 5)

	uc := sales.NewCreateSaleUseCase(postgres.NewTxRunner(pool), nil, nil)
	res, err := uc.CreateSale(ctx, sales.CreateSaleInput{
		CashierID: 7,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: crema.ID, Quantity: 2}, {ProductID: jabon.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.LinesCreated)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("170.00")))

	products := postgres.NewProductRepository(pool)
	got, err := products.GetByID(ctx, crema.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.StockQuantity)
	require.NotNil(t, got.DiscountPrice)
	assert.True(t, got.DiscountPrice.Equal(decimal.RequireFromString("75.00")))

	ledger, err := postgres.NewSaleRepository(pool).ListByCashier(ctx, 7)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, res.TransactionID, ledger[0].TransactionID)
	assert.Equal(t, ledger[0].TransactionID, ledger[1].TransactionID)

	analytics := postgres.NewAnalyticsRepository(pool)
	total, err := analytics.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("170.00")))

	count, err := analytics.SalesCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	inRange, err := analytics.RevenueInRange(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, inRange.Equal(total))

	top, err := analytics.TopProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, crema.ID, top[0].ProductID)
	assert.Equal(t, 2, top[0].TotalQuantity)

	// Producto eliminado: la venta se conserva y el ranking lo muestra sin nombre
	require.NoError(t, products.Delete(ctx, jabon.ID))
	top, err = analytics.TopProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Empty(t, top[1].ProductName)
}

func TestPostgres_RechazoNoModificaNada(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	p := createProduct(t, pool, "10.00", "", 5)

	uc := sales.NewCreateSaleUseCase(postgres.NewTxRunner(pool), nil, nil)
	_, err := uc.CreateSale(ctx, sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: p.ID, Quantity: 3}, {ProductID: p.ID, Quantity: 3}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	count, err := postgres.NewAnalyticsRepository(pool).SalesCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostgres_DecrementStockNoBajaDeCero(t *testing.T) {
	pool := newTestPool(t)
	p := createProduct(t, pool, "10.00", "", 2)

	_, err := postgres.NewProductRepository(pool).DecrementStock(context.Background(), p.ID, 3)
	assert.ErrorIs(t, err, domain.ErrStockInvariant)

	_, err = postgres.NewProductRepository(pool).DecrementStock(context.Background(), 999999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPostgres_UpdateParcialConservaStockVendido(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)
	p := createProduct(t, pool, "12.00", "9.00", 10)

	_, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)

	name := "Labial mate"
	updated, err := repo.Update(ctx, p.ID, repository.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Labial mate", updated.Name)
	assert.Equal(t, 7, updated.StockQuantity)
	require.NotNil(t, updated.DiscountPrice)
	assert.True(t, updated.DiscountPrice.Equal(decimal.RequireFromString("9.00")))

	stock := 20
	updated, err = repo.Update(ctx, p.ID, repository.ProductPatch{StockQuantity: &stock})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.StockQuantity)
	assert.Equal(t, "Labial mate", updated.Name)

	_, err = repo.Update(ctx, 999999, repository.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = repo.Update(ctx, 999999, repository.ProductPatch{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPostgres_VentasConcurrentesNoSobrevenden(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	p := createProduct(t, pool, "10.00", "", 10)
	uc := sales.NewCreateSaleUseCase(postgres.NewTxRunner(pool), nil, nil)

	const buyers = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(cashier int64) {
			defer wg.Done()
			_, err := uc.CreateSale(ctx, sales.CreateSaleInput{
				CashierID: cashier,
				Confirmed: true,
				Lines:     []sales.CartLine{{ProductID: p.ID, Quantity: 1}},
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)

	count, err := postgres.NewAnalyticsRepository(pool).SalesCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestPostgres_UsuarioDuplicado(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewUserRepository(pool)

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "ana", PasswordHash: "x", Role: entity.RoleCashier}))
	err := repo.Create(ctx, &entity.User{Username: "ana", PasswordHash: "y", Role: entity.RoleCashier})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}
