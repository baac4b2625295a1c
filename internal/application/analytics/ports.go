package analytics

import (
	"time"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// DailyReportRenderer genera el documento imprimible del reporte diario.
type DailyReportRenderer interface {
	RenderDailyReport(report *dto.DailyReportDTO) ([]byte, error)
}

// SalesExporter serializa un tramo del libro de ventas para contabilidad.
type SalesExporter interface {
	ExportSales(start, end time.Time, sales []dto.SaleDTO) ([]byte, error)
}
