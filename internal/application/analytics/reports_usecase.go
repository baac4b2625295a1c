// Package analytics contiene los casos de uso de reportes sobre el libro de ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ReportsUseCase reportes del director: estadísticas, ingresos por rango,
// ranking de productos, reporte diario y exportación del libro.
//
// Las fechas se interpretan en UTC, igual que sale_date.
type ReportsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	renderer      DailyReportRenderer
	exporter      SalesExporter
	topLimit      int
	topMax        int
	now           func() time.Time
}

// NewReportsUseCase construye el caso de uso. renderer y exporter pueden ser nil
// si no se exponen PDF ni XML.
func NewReportsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	renderer DailyReportRenderer,
	exporter SalesExporter,
	topLimit, topMax int,
) *ReportsUseCase {
	return &ReportsUseCase{
		analyticsRepo: analyticsRepo,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		renderer:      renderer,
		exporter:      exporter,
		topLimit:      topLimit,
		topMax:        topMax,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *ReportsUseCase) WithClock(now func() time.Time) *ReportsUseCase {
	uc.now = now
	return uc
}

// GetStatistics construye el resumen general.
//
// Tres llamadas en paralelo:
//  1. TotalRevenue
//  2. SalesCount
//  3. TopProducts(limit)
func (uc *ReportsUseCase) GetStatistics(ctx context.Context, limit int) (*dto.StatisticsDTO, error) {
	limit = uc.clampLimit(limit)

	type revenueResult struct {
		total decimal.Decimal
		err   error
	}
	type countResult struct {
		n   int
		err error
	}
	type topResult struct {
		top []dto.TopProductDTO
		err error
	}

	revenueCh := make(chan revenueResult, 1)
	countCh := make(chan countResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		total, err := uc.analyticsRepo.TotalRevenue(ctx)
		revenueCh <- revenueResult{total, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.SalesCount(ctx)
		countCh <- countResult{n, err}
	}()
	go func() {
		top, err := uc.topProducts(ctx, limit)
		topCh <- topResult{top, err}
	}()

	revenue := <-revenueCh
	count := <-countCh
	top := <-topCh

	if revenue.err != nil {
		return nil, fmt.Errorf("statistics: ingresos: %w", revenue.err)
	}
	if count.err != nil {
		return nil, fmt.Errorf("statistics: cantidad de ventas: %w", count.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("statistics: top productos: %w", top.err)
	}

	return &dto.StatisticsDTO{
		TotalRevenue:    revenue.total,
		TotalSalesCount: count.n,
		TopProducts:     top.top,
	}, nil
}

// TotalRevenue suma de todo el libro; cero si está vacío.
func (uc *ReportsUseCase) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return uc.analyticsRepo.TotalRevenue(ctx)
}

// RevenueBetween suma con start <= sale_date <= end.
func (uc *ReportsUseCase) RevenueBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, fmt.Errorf("%w: el inicio no puede ser posterior al fin", domain.ErrInvalidInput)
	}
	return uc.analyticsRepo.RevenueInRange(ctx, start, end)
}

// RevenueInRange versión con fechas YYYY-MM-DD (fin inclusivo hasta el final del día).
func (uc *ReportsUseCase) RevenueInRange(ctx context.Context, in dto.DateRangeRequest) (*dto.RevenueRangeDTO, error) {
	start, end, err := uc.parsePeriod(in.Start, in.End)
	if err != nil {
		return nil, err
	}
	revenue, err := uc.analyticsRepo.RevenueInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.RevenueRangeDTO{
		Start:   start.Format(dateLayout),
		End:     end.Format(dateLayout),
		Revenue: revenue,
	}, nil
}

// TopProducts ranking por ingreso. limit <= 0 usa el valor por defecto.
func (uc *ReportsUseCase) TopProducts(ctx context.Context, limit int) ([]dto.TopProductDTO, error) {
	return uc.topProducts(ctx, uc.clampLimit(limit))
}

func (uc *ReportsUseCase) topProducts(ctx context.Context, limit int) ([]dto.TopProductDTO, error) {
	rows, err := uc.analyticsRepo.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.TopProductDTO{
			Rank:          i + 1,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			TotalQuantity: r.TotalQuantity,
			TotalRevenue:  r.TotalRevenue,
		})
	}
	return out, nil
}

func (uc *ReportsUseCase) clampLimit(limit int) int {
	if limit <= 0 {
		return uc.topLimit
	}
	if limit > uc.topMax {
		return uc.topMax
	}
	return limit
}

// DailyReport ventas de un día. Fecha vacía o inválida = hoy.
func (uc *ReportsUseCase) DailyReport(ctx context.Context, date string) (*dto.DailyReportDTO, error) {
	day := uc.parseDay(date)
	start := day
	end := day.Add(24*time.Hour - time.Nanosecond)

	list, err := uc.saleRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	view, err := sales.BuildSaleList(ctx, uc.productRepo, list)
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	return &dto.DailyReportDTO{
		Date:       day.Format(dateLayout),
		Sales:      view.Items,
		Revenue:    view.TotalAmount,
		SalesCount: view.Count,
	}, nil
}

// DailyReportPDF reporte diario como PDF; devuelve también la fecha usada.
func (uc *ReportsUseCase) DailyReportPDF(ctx context.Context, date string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("%w: generador PDF no configurado", domain.ErrConflict)
	}
	report, err := uc.DailyReport(ctx, date)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.RenderDailyReport(report)
	if err != nil {
		return nil, "", fmt.Errorf("daily report pdf: %w", err)
	}
	return doc, report.Date, nil
}

// ExportSales serializa las ventas del período para contabilidad.
func (uc *ReportsUseCase) ExportSales(ctx context.Context, in dto.DateRangeRequest) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("%w: exportador no configurado", domain.ErrConflict)
	}
	start, end, err := uc.parsePeriod(in.Start, in.End)
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	view, err := sales.BuildSaleList(ctx, uc.productRepo, list)
	if err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	return uc.exporter.ExportSales(start, end, view.Items)
}

func (uc *ReportsUseCase) parseDay(date string) time.Time {
	if date != "" {
		if d, err := time.ParseInLocation(dateLayout, date, time.UTC); err == nil {
			return d
		}
	}
	now := uc.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parsePeriod start vacío = primer día del mes; end vacío = ahora.
func (uc *ReportsUseCase) parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := uc.now()

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation(dateLayout, endStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end inválido: %v", domain.ErrInvalidInput, err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond) // inclusive hasta el final del día
	}

	if startStr == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		start, err = time.ParseInLocation(dateLayout, startStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start inválido: %v", domain.ErrInvalidInput, err)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start no puede ser posterior a end", domain.ErrInvalidInput)
	}
	return start, end, nil
}
