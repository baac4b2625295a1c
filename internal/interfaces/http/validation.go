package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según la etiqueta json
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseAndValidate lee el body en dst y aplica las reglas `validate`.
// Si falla ya escribió la respuesta 400 y devuelve false.
func parseAndValidate(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	return true, nil
}

func validationResponse(err error) dto.ErrorResponse {
	res := dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			res.Details = append(res.Details, dto.ErrorDetail{Field: e.Field(), Message: validationMessage(e)})
		}
	}
	return res
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo requerido"
	case "min":
		if e.Kind() == reflect.String {
			return "debe tener al menos " + e.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "debe tener como máximo " + e.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	default:
		return "valor inválido"
	}
}
