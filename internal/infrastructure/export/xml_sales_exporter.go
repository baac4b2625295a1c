// Package export serializa el libro de ventas para sistemas contables externos.
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/analytics"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

const dateLayout = "2006-01-02"

var _ analytics.SalesExporter = (*XMLSalesExporter)(nil)

// XMLSalesExporter genera un documento <SalesExport> con un nodo <Sale> por línea.
type XMLSalesExporter struct {
	shopName string
}

func NewXMLSalesExporter(shopName string) *XMLSalesExporter {
	return &XMLSalesExporter{shopName: shopName}
}

// ExportSales construye el XML; Total es la suma de TotalPrice de las líneas incluidas.
func (e *XMLSalesExporter) ExportSales(start, end time.Time, sales []dto.SaleDTO) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("SalesExport")
	if e.shopName != "" {
		root.CreateAttr("shop", e.shopName)
	}
	root.CreateAttr("start", start.UTC().Format(dateLayout))
	root.CreateAttr("end", end.UTC().Format(dateLayout))
	root.CreateAttr("count", strconv.Itoa(len(sales)))

	total := decimal.Zero
	for _, s := range sales {
		sale := root.CreateElement("Sale")
		sale.CreateAttr("id", strconv.FormatInt(s.ID, 10))
		if s.TransactionID != "" {
			sale.CreateAttr("transaction", s.TransactionID)
		}
		sale.CreateElement("Date").SetText(s.SaleDate.UTC().Format(time.RFC3339))

		product := sale.CreateElement("Product")
		product.CreateAttr("id", strconv.FormatInt(s.ProductID, 10))
		product.SetText(s.ProductName)

		sale.CreateElement("CashierID").SetText(strconv.FormatInt(s.CashierID, 10))
		sale.CreateElement("Quantity").SetText(strconv.Itoa(s.Quantity))
		sale.CreateElement("TotalPrice").SetText(s.TotalPrice.StringFixed(2))
		total = total.Add(s.TotalPrice)
	}
	root.CreateElement("Total").SetText(total.StringFixed(2))

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("export: serializar XML: %w", err)
	}
	return out.Bytes(), nil
}
