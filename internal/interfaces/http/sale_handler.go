package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
)

// SaleHandler registra ventas y expone el historial.
type SaleHandler struct {
	createSale *sales.CreateSaleUseCase
	history    *sales.HistoryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(createSale *sales.CreateSaleUseCase, history *sales.HistoryUseCase) *SaleHandler {
	return &SaleHandler{createSale: createSale, history: history}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida todo el carrito antes de tocar stock. Cualquier error rechaza la venta completa.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Carrito confirmado"
// @Success      201   {object}  dto.SaleResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.SaleRejectedResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createSale.CreateSaleFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas (director: todas; cajero: propias)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListDTO
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.history.ListSales(c.UserContext(), GetUserID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// My godoc
// @Summary      Ventas propias con su total
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListDTO
// @Router       /api/sales/my [get]
func (h *SaleHandler) My(c *fiber.Ctx) error {
	out, err := h.history.MySales(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener una línea de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.history.GetSale(c.UserContext(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
