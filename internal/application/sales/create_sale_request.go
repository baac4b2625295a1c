package sales

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

// CreateSaleFromRequest adapta el request HTTP al caso de uso CreateSale.
// Orden de rechazo: falta de confirmación, carrito vacío, listas de distinto largo.
// Enviar items junto con las listas paralelas también es LINE_COUNT_MISMATCH.
func (uc *CreateSaleUseCase) CreateSaleFromRequest(ctx context.Context, cashierID int64, in dto.CreateSaleRequest) (*dto.SaleResultDTO, error) {
	lines, inputErr := cartFromRequest(in)
	if inputErr != nil {
		return nil, uc.reject(cashierID, inputErr)
	}
	res, err := uc.CreateSale(ctx, CreateSaleInput{CashierID: cashierID, Confirmed: in.Confirmed, Lines: lines})
	if err != nil {
		return nil, err
	}

	out := &dto.SaleResultDTO{
		TransactionID: res.TransactionID,
		LinesCreated:  res.LinesCreated,
		TotalAmount:   res.TotalAmount,
		Sales:         make([]dto.SaleDTO, 0, len(res.Sales)),
	}
	for _, s := range res.Sales {
		out.Sales = append(out.Sales, toSaleDTO(s, ""))
	}
	return out, nil
}

func cartFromRequest(in dto.CreateSaleRequest) ([]CartLine, domain.SaleErrors) {
	if !in.Confirmed {
		return nil, domain.NewSaleInputError(domain.SaleErrNotConfirmed)
	}
	if len(in.Items) > 0 {
		if len(in.ProductIDs) > 0 || len(in.Quantities) > 0 {
			return nil, domain.NewSaleInputError(domain.SaleErrLineCountMismatch)
		}
		lines := make([]CartLine, 0, len(in.Items))
		for _, it := range in.Items {
			lines = append(lines, CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return lines, nil
	}
	if len(in.ProductIDs) == 0 || len(in.Quantities) == 0 {
		return nil, domain.NewSaleInputError(domain.SaleErrEmptyCart)
	}
	if len(in.ProductIDs) != len(in.Quantities) {
		return nil, domain.NewSaleInputError(domain.SaleErrLineCountMismatch)
	}
	lines := make([]CartLine, len(in.ProductIDs))
	for i := range in.ProductIDs {
		lines[i] = CartLine{ProductID: in.ProductIDs[i], Quantity: in.Quantities[i]}
	}
	return lines, nil
}
