package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/analytics"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	clock   time.Time
	engine  *sales.CreateSaleUseCase
	reports *analytics.ReportsUseCase
	render  *fakeRenderer
}

type fakeRenderer struct{ got *dto.DailyReportDTO }

func (f *fakeRenderer) RenderDailyReport(r *dto.DailyReportDTO) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC), render: &fakeRenderer{}}
	f.store = memory.NewStore(memory.WithClock(func() time.Time { return f.clock }))
	f.engine = sales.NewCreateSaleUseCase(f.store, nil, nil)
	f.reports = analytics.NewReportsUseCase(
		f.store.Analytics(), f.store.Sales(), f.store.Products(), f.render, nil, 10, 50,
	).WithClock(func() time.Time { return f.clock })
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock int) int64 {
	t.Helper()
	p := &entity.Product{Name: name, Category: "General", Price: decimal.RequireFromString(price), StockQuantity: stock}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) sell(t *testing.T, lines ...sales.CartLine) *sales.SaleResult {
	t.Helper()
	res, err := f.engine.CreateSale(context.Background(), sales.CreateSaleInput{CashierID: 1, Confirmed: true, Lines: lines})
	require.NoError(t, err)
	return res
}

// ── Estadísticas ──────────────────────────────────────────────────────────────

func TestGetStatistics_ConsistenteConVentas(t *testing.T) {
	f := newFixture(t)
	labial := f.product(t, "Labial", "12.00", 50)
	rimel := f.product(t, "Rímel", "30.00", 50)

	var sum decimal.Decimal
	sum = sum.Add(f.sell(t, sales.CartLine{ProductID: labial, Quantity: 2}).TotalAmount)
	sum = sum.Add(f.sell(t, sales.CartLine{ProductID: rimel, Quantity: 1}, sales.CartLine{ProductID: labial, Quantity: 1}).TotalAmount)
	sum = sum.Add(f.sell(t, sales.CartLine{ProductID: rimel, Quantity: 3}).TotalAmount)

	stats, err := f.reports.GetStatistics(context.Background(), 0)
	require.NoError(t, err)

	assert.True(t, stats.TotalRevenue.Equal(sum))
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("156.00")))
	assert.Equal(t, 4, stats.TotalSalesCount)
	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, 1, stats.TopProducts[0].Rank)
	assert.Equal(t, "Rímel", stats.TopProducts[0].ProductName)
	assert.Equal(t, 4, stats.TopProducts[0].TotalQuantity)
	assert.True(t, stats.TopProducts[0].TotalRevenue.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, "Labial", stats.TopProducts[1].ProductName)
}

func TestGetStatistics_LibroVacio(t *testing.T) {
	f := newFixture(t)
	stats, err := f.reports.GetStatistics(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Zero(t, stats.TotalSalesCount)
	assert.Empty(t, stats.TopProducts)
}

func TestTopProducts_LimiteAcotado(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		id := f.product(t, "P", "1.00", 5)
		f.sell(t, sales.CartLine{ProductID: id, Quantity: i + 1})
	}

	top, err := f.reports.TopProducts(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	top, err = f.reports.TopProducts(context.Background(), 1000)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

// ── Rangos de fechas ──────────────────────────────────────────────────────────

func TestRevenueInRange_FinInclusivo(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Perfume", "100.00", 10)

	f.clock = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.sell(t, sales.CartLine{ProductID: id, Quantity: 1})
	f.clock = time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)
	f.sell(t, sales.CartLine{ProductID: id, Quantity: 2})
	f.clock = time.Date(2024, 5, 11, 0, 0, 1, 0, time.UTC)
	f.sell(t, sales.CartLine{ProductID: id, Quantity: 4})

	got, err := f.reports.RevenueInRange(context.Background(), dto.DateRangeRequest{Start: "2024-05-01", End: "2024-05-10"})
	require.NoError(t, err)
	assert.True(t, got.Revenue.Equal(decimal.RequireFromString("300.00")))
	assert.Equal(t, "2024-05-01", got.Start)
	assert.Equal(t, "2024-05-10", got.End)

	exact, err := f.reports.RevenueBetween(context.Background(),
		time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC), time.Date(2024, 5, 11, 0, 0, 1, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, exact.Equal(decimal.RequireFromString("600.00")), "ambos extremos incluidos")
}

func TestRevenueInRange_FechasInvalidas(t *testing.T) {
	f := newFixture(t)

	_, err := f.reports.RevenueInRange(context.Background(), dto.DateRangeRequest{Start: "2024-13-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reports.RevenueInRange(context.Background(), dto.DateRangeRequest{Start: "2024-05-10", End: "2024-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reports.RevenueBetween(context.Background(), f.clock, f.clock.Add(-time.Second))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Reporte diario ────────────────────────────────────────────────────────────

func TestDailyReport_SoloVentasDelDia(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Esmalte", "5.00", 20)

	f.clock = time.Date(2024, 5, 19, 23, 59, 0, 0, time.UTC)
	f.sell(t, sales.CartLine{ProductID: id, Quantity: 1})
	f.clock = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	f.sell(t, sales.CartLine{ProductID: id, Quantity: 2})
	f.clock = time.Date(2024, 5, 20, 18, 0, 0, 0, time.UTC)
	f.sell(t, sales.CartLine{ProductID: id, Quantity: 3})

	report, err := f.reports.DailyReport(context.Background(), "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", report.Date)
	assert.Equal(t, 2, report.SalesCount)
	assert.True(t, report.Revenue.Equal(decimal.RequireFromString("25.00")))
	require.Len(t, report.Sales, 2)
	assert.Equal(t, 3, report.Sales[0].Quantity, "la más reciente primero")
	assert.Equal(t, "Esmalte", report.Sales[0].ProductName)
}

func TestDailyReport_FechaInvalidaUsaHoy(t *testing.T) {
	f := newFixture(t)
	f.clock = time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC)

	for _, date := range []string{"", "ayer", "2024/06/01"} {
		report, err := f.reports.DailyReport(context.Background(), date)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-02", report.Date)
	}
}

func TestDailyReportPDF_UsaRenderer(t *testing.T) {
	f := newFixture(t)
	doc, date, err := f.reports.DailyReportPDF(context.Background(), "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", date)
	assert.Equal(t, []byte("%PDF-fake"), doc)
	require.NotNil(t, f.render.got)
	assert.Equal(t, "2024-05-20", f.render.got.Date)
}

func TestExportSales_SinExportador(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.ExportSales(context.Background(), dto.DateRangeRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
