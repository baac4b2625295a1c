package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

// respondError traduce errores de dominio a status + dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	var saleErrs domain.SaleErrors
	switch {
	case errors.As(err, &saleErrs):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(saleRejected(saleErrs))
	case errors.Is(err, domain.ErrSaleCommitFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SALE_COMMIT_FAILED", Message: "no se pudo registrar la venta; no se guardó ninguna línea"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrSelfDelete):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SELF_DELETE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "USERNAME_TAKEN", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func saleRejected(errs domain.SaleErrors) dto.SaleRejectedResponse {
	res := dto.SaleRejectedResponse{
		Code:    "SALE_REJECTED",
		Message: "la venta no fue registrada",
		Errors:  make([]dto.SaleErrorDTO, 0, len(errs)),
	}
	for _, e := range errs {
		item := dto.SaleErrorDTO{Code: string(e.Kind), ProductID: e.ProductID, Message: e.Error()}
		if e.Kind == domain.SaleErrInsufficientStock {
			available := e.Available
			item.Available = &available
		}
		res.Errors = append(res.Errors, item)
	}
	return res
}

// paramID lee un :id numérico positivo.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
}
