package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/analytics"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// ReportHandler reportes del director.
type ReportHandler struct {
	uc *analytics.ReportsUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportsUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Statistics godoc
// @Summary      Ingreso total, cantidad de ventas y ranking de productos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Tamaño del ranking"
// @Success      200    {object}  dto.StatisticsDTO
// @Router       /api/reports/statistics [get]
func (h *ReportHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.uc.GetStatistics(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Revenue godoc
// @Summary      Ingreso en un rango de fechas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "YYYY-MM-DD (por defecto: inicio del mes)"
// @Param        end    query  string  false  "YYYY-MM-DD inclusivo (por defecto: hoy)"
// @Success      200    {object}  dto.RevenueRangeDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/revenue [get]
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	var in dto.DateRangeRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.RevenueInRange(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos con mayor ingreso
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad"
// @Success      200    {array}  dto.TopProductDTO
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Daily godoc
// @Summary      Reporte diario de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto: hoy)"
// @Success      200   {object}  dto.DailyReportDTO
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	out, err := h.uc.DailyReport(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DailyPDF godoc
// @Summary      Reporte diario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto: hoy)"
// @Success      200   {file}  binary
// @Router       /api/reports/daily.pdf [get]
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	doc, date, err := h.uc.DailyReportPDF(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="ventas-%s.pdf"`, date))
	return c.Send(doc)
}

// ExportXML godoc
// @Summary      Exportar libro de ventas en XML
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Param        start  query  string  false  "YYYY-MM-DD"
// @Param        end    query  string  false  "YYYY-MM-DD inclusivo"
// @Success      200    {file}  binary
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/export.xml [get]
func (h *ReportHandler) ExportXML(c *fiber.Ctx) error {
	var in dto.DateRangeRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	doc, err := h.uc.ExportSales(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ventas.xml"`)
	return c.Send(doc)
}
