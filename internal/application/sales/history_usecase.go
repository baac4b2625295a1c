package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// HistoryUseCase consultas del libro de ventas según el rol del usuario.
type HistoryUseCase struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(sales repository.SaleRepository, products repository.ProductRepository) *HistoryUseCase {
	return &HistoryUseCase{sales: sales, products: products}
}

// ListSales devuelve todas las ventas al director y solo las propias al cajero.
func (uc *HistoryUseCase) ListSales(ctx context.Context, userID int64, role string) (*dto.SaleListDTO, error) {
	if role == entity.RoleDirector {
		list, err := uc.sales.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return BuildSaleList(ctx, uc.products, list)
	}
	return uc.MySales(ctx, userID)
}

// MySales ventas registradas por userID, con su suma.
func (uc *HistoryUseCase) MySales(ctx context.Context, userID int64) (*dto.SaleListDTO, error) {
	list, err := uc.sales.ListByCashier(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildSaleList(ctx, uc.products, list)
}

// ProductSales ventas de un producto (solo director).
func (uc *HistoryUseCase) ProductSales(ctx context.Context, productID int64) (*dto.SaleListDTO, error) {
	list, err := uc.sales.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return BuildSaleList(ctx, uc.products, list)
}

// GetSale devuelve una línea; el cajero solo puede ver las suyas.
func (uc *HistoryUseCase) GetSale(ctx context.Context, id, userID int64, role string) (*dto.SaleDTO, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if role != entity.RoleDirector && s.CashierID != userID {
		return nil, domain.ErrForbidden
	}
	list, err := BuildSaleList(ctx, uc.products, []*entity.Sale{s})
	if err != nil {
		return nil, err
	}
	return &list.Items[0], nil
}

// BuildSaleList arma el listado con nombres de producto y la suma de total_price.
// Un producto eliminado deja el nombre vacío.
func BuildSaleList(ctx context.Context, products repository.ProductRepository, list []*entity.Sale) (*dto.SaleListDTO, error) {
	names := make(map[int64]string)
	out := &dto.SaleListDTO{Items: make([]dto.SaleDTO, 0, len(list)), TotalAmount: decimal.Zero}
	for _, s := range list {
		name, ok := names[s.ProductID]
		if !ok {
			p, err := products.GetByID(ctx, s.ProductID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				name = p.Name
			}
			names[s.ProductID] = name
		}
		out.Items = append(out.Items, toSaleDTO(s, name))
		out.TotalAmount = out.TotalAmount.Add(s.TotalPrice)
	}
	out.Count = len(out.Items)
	return out, nil
}

func toSaleDTO(s *entity.Sale, productName string) dto.SaleDTO {
	return dto.SaleDTO{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		ProductID:     s.ProductID,
		ProductName:   productName,
		CashierID:     s.CashierID,
		Quantity:      s.Quantity,
		TotalPrice:    s.TotalPrice,
		SaleDate:      s.SaleDate,
	}
}
