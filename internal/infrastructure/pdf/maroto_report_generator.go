// Package pdf genera la versión imprimible del reporte diario de ventas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda      │  Reporte diario + fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Producto | Cant. | Cajero | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ventas registradas / Ingreso del día              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/analytics"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

var _ analytics.DailyReportRenderer = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 122, Green: 28, Blue: 88}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.DailyReportRenderer usando Maroto v2.
type MarotoReportGenerator struct {
	shopName string
}

// NewMarotoReportGenerator construye el generador con el nombre de la tienda del encabezado.
func NewMarotoReportGenerator(shopName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{shopName: shopName}
}

// RenderDailyReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) RenderDailyReport(report *dto.DailyReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte diario "+report.Date, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.shopName, report.Date))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(report.Sales) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin ventas registradas en el día", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range saleRows(report.Sales) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(shopName, date string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DIARIO DE VENTAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Hora", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Cant.", 1, align.Center),
		h("Cajero", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// saleRows una fila por línea vendida.
func saleRows(sales []dto.SaleDTO) []core.Row {
	result := make([]core.Row, 0, len(sales))
	for _, s := range sales {
		name := s.ProductName
		if name == "" {
			name = fmt.Sprintf("Producto #%d", s.ProductID)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(s.SaleDate.Format("15:04:05"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", s.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", s.CashierID), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatMoney(s.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(report *dto.DailyReportDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Ventas registradas:"),
			text.New("Ingreso del día:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", report.SalesCount), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(formatMoney(report.Revenue), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney dos decimales con punto de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
