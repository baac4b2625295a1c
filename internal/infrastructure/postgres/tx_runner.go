package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta las ventas dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre una transacción READ COMMITTED, ejecuta fn con el catálogo y el libro
// atados a ella y hace Commit; cualquier error (o pánico) la revierte entera.
// Los FOR UPDATE tomados dentro de fn se liberan al terminar.
//
// Si fn no consigue los bloqueos de fila (lock_timeout, deadlock o cancelación por
// statement_timeout) el error se devuelve envuelto en domain.ErrConflict: otra caja
// estaba vendiendo el mismo producto y la venta puede reintentarse.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewSaleRepository(tx)); err != nil {
		return txError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return txError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// txError marca como conflicto las fallas por contención de bloqueos.
func txError(err error) error {
	if isLockFailure(err) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}
