package memory

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ sales.TxRunner = (*Store)(nil)

// Run ejecuta fn con repositorios atados a una transacción en memoria.
// Si fn devuelve error o entra en pánico se deshacen todas sus escrituras;
// el pánico se propaga después del rollback.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := &undoLog{}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(undo)
			panic(p)
		}
	}()

	err := fn(&ProductRepo{s: s, undo: undo}, &SaleRepo{s: s, undo: undo})
	if err != nil {
		s.rollback(undo)
	}
	return err
}

func (s *Store) rollback(undo *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	undo.rollback()
}
