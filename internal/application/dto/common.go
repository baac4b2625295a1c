package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail error de validación de un campo.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DateRangeRequest rango de fechas YYYY-MM-DD; end es inclusivo hasta las 23:59:59.
type DateRangeRequest struct {
	Start string `query:"start"`
	End   string `query:"end"`
}
