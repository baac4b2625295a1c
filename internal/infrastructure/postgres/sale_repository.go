package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, COALESCE(transaction_id::TEXT, ''), product_id, cashier_id, quantity, total_price, sale_date`

// SaleRepo libro de ventas sobre PostgreSQL. Solo INSERT y SELECT.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador del libro de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Append inserta la línea; la fecha la asigna la base de datos.
func (r *SaleRepo) Append(ctx context.Context, sale *entity.Sale) error {
	var txID *uuid.UUID
	if sale.TransactionID != "" {
		id, err := uuid.Parse(sale.TransactionID)
		if err != nil {
			return fmt.Errorf("transaction id: %w", err)
		}
		txID = &id
	}
	query := `
		INSERT INTO sales (transaction_id, product_id, cashier_id, quantity, total_price, sale_date)
		VALUES ($1, $2, $3, $4, $5, clock_timestamp())
		RETURNING id, sale_date`
	err := r.q.QueryRow(ctx, query, txID, sale.ProductID, sale.CashierID, sale.Quantity, sale.TotalPrice).
		Scan(&sale.ID, &sale.SaleDate)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una línea del libro; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.TransactionID, &s.ProductID, &s.CashierID, &s.Quantity, &s.TotalPrice, &s.SaleDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

func (r *SaleRepo) ListAll(ctx context.Context) ([]*entity.Sale, error) {
	return r.list(ctx, "", nil)
}

func (r *SaleRepo) ListByCashier(ctx context.Context, cashierID int64) ([]*entity.Sale, error) {
	return r.list(ctx, "WHERE cashier_id = $1", []any{cashierID})
}

func (r *SaleRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Sale, error) {
	return r.list(ctx, "WHERE product_id = $1", []any{productID})
}

func (r *SaleRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*entity.Sale, error) {
	return r.list(ctx, "WHERE sale_date >= $1 AND sale_date <= $2", []any{start, end})
}

func (r *SaleRepo) list(ctx context.Context, where string, args []any) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ` + where + ` ORDER BY sale_date DESC, id DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.TransactionID, &s.ProductID, &s.CashierID, &s.Quantity, &s.TotalPrice, &s.SaleDate,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
