package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/pricing"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// CartLine una línea del carrito, en el orden en que se envió.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// CreateSaleInput datos de una venta. Confirmed debe ser true.
type CreateSaleInput struct {
	CashierID int64
	Confirmed bool
	Lines     []CartLine
}

// SaleResult resultado de una venta aceptada.
type SaleResult struct {
	TransactionID string
	LinesCreated  int
	TotalAmount   decimal.Decimal
	Sales         []*entity.Sale
}

// CreateSaleUseCase motor de ventas: valida el carrito completo y, solo si no hay
// errores, registra una línea por item y descuenta stock, todo en una transacción.
type CreateSaleUseCase struct {
	txRunner TxRunner
	recorder Recorder
	log      *logger.Logger
	newTxID  func() string
}

// NewCreateSaleUseCase construye el caso de uso. recorder y log pueden ser nil.
func NewCreateSaleUseCase(txRunner TxRunner, recorder Recorder, log *logger.Logger) *CreateSaleUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CreateSaleUseCase{
		txRunner: txRunner,
		recorder: recorder,
		log:      log.Named("sales"),
		newTxID:  uuid.NewString,
	}
}

// CreateSale ejecuta la venta. Los rechazos se devuelven como domain.SaleErrors;
// una falla en la fase de registro se devuelve envuelta en domain.ErrSaleCommitFailed.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*SaleResult, error) {
	if !in.Confirmed {
		return nil, uc.reject(in.CashierID, domain.NewSaleInputError(domain.SaleErrNotConfirmed))
	}
	if len(in.Lines) == 0 {
		return nil, uc.reject(in.CashierID, domain.NewSaleInputError(domain.SaleErrEmptyCart))
	}

	txID := uc.newTxID()
	var result *SaleResult
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, sales repository.SaleRepository) error {
		current, err := lockProducts(ctx, products, in.Lines)
		if err != nil {
			return err
		}
		if errs := validateCart(in.Lines, current); len(errs) > 0 {
			return errs
		}
		res, err := commitCart(ctx, products, sales, in, txID)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSaleCommitFailed, err)
		}
		result = res
		return nil
	})
	if err != nil {
		var rejected domain.SaleErrors
		if errors.As(err, &rejected) {
			return nil, uc.reject(in.CashierID, rejected)
		}
		uc.recorder.SaleFailed()
		uc.log.ForSale(txID, in.CashierID).Error().Err(err).Msg("venta revertida")
		if errors.Is(err, domain.ErrSaleCommitFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("create sale: %w", err)
	}

	uc.recorder.SaleCreated(result.LinesCreated, result.TotalAmount)
	uc.log.ForSale(result.TransactionID, in.CashierID).Info().
		Int("lines", result.LinesCreated).
		Str("total", result.TotalAmount.StringFixed(2)).
		Msg("venta registrada")
	return result, nil
}

func (uc *CreateSaleUseCase) reject(cashierID int64, errs domain.SaleErrors) error {
	for _, e := range errs {
		uc.recorder.SaleRejected(e.Kind)
	}
	uc.log.Warn().Int64("cashier_id", cashierID).Strs("errors", kindsAsStrings(errs)).Msg("venta rechazada")
	return errs
}

func kindsAsStrings(errs domain.SaleErrors) []string {
	out := make([]string, 0, len(errs))
	for _, k := range errs.Kinds() {
		out = append(out, string(k))
	}
	return out
}

// lockProducts bloquea cada producto referenciado en orden de ID ascendente
// (evita interbloqueos entre ventas concurrentes). Los ausentes quedan en nil.
func lockProducts(ctx context.Context, products repository.ProductRepository, lines []CartLine) (map[int64]*entity.Product, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make(map[int64]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock product %d: %w", id, err)
		}
		out[id] = p
	}
	return out, nil
}

// validateCart revisa todas las líneas sin cortar en el primer error.
// El stock disponible se va restando por línea, así un producto repetido
// se valida contra la demanda acumulada del carrito.
func validateCart(lines []CartLine, products map[int64]*entity.Product) domain.SaleErrors {
	remaining := make(map[int64]int, len(products))
	for id, p := range products {
		if p != nil {
			remaining[id] = p.StockQuantity
		}
	}

	var errs domain.SaleErrors
	for _, l := range lines {
		if products[l.ProductID] == nil {
			errs = append(errs, &domain.SaleError{Kind: domain.SaleErrProductNotFound, ProductID: l.ProductID})
			continue
		}
		if l.Quantity <= 0 {
			errs = append(errs, &domain.SaleError{Kind: domain.SaleErrInvalidQuantity, ProductID: l.ProductID})
			continue
		}
		available := remaining[l.ProductID]
		if available < l.Quantity {
			errs = append(errs, &domain.SaleError{
				Kind:      domain.SaleErrInsufficientStock,
				ProductID: l.ProductID,
				Available: available,
			})
			continue
		}
		remaining[l.ProductID] = available - l.Quantity
	}
	return errs
}

// commitCart registra cada línea en orden: precio resuelto con el estado actual
// del producto, alta en el libro y descuento de stock.
func commitCart(
	ctx context.Context,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	in CreateSaleInput,
	txID string,
) (*SaleResult, error) {
	res := &SaleResult{TransactionID: txID, TotalAmount: decimal.Zero}
	for i, l := range in.Lines {
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if p == nil {
			return nil, fmt.Errorf("line %d: %w", i+1, domain.ErrProductNotFound)
		}

		sale := &entity.Sale{
			TransactionID: txID,
			ProductID:     l.ProductID,
			CashierID:     in.CashierID,
			Quantity:      l.Quantity,
			TotalPrice:    pricing.LineTotal(p, l.Quantity),
		}
		if err := sales.Append(ctx, sale); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if _, err := products.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		res.Sales = append(res.Sales, sale)
		res.TotalAmount = res.TotalAmount.Add(sale.TotalPrice)
		res.LinesCreated++
	}
	return res, nil
}
