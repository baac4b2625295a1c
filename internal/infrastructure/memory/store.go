// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en desarrollo (STORAGE_DRIVER=memory) y en las pruebas de casos de uso.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// Store contiene catálogo, libro de ventas y usuarios.
//
// txMu serializa las transacciones de venta y toda escritura sobre productos,
// de modo que validar y registrar una venta ocurre sin intercalado. Las lecturas
// fuera de transacción lo toman en modo lectura: nunca ven escrituras de un Run
// que todavía puede deshacerse.
// mu protege los mapas; se toma siempre después de txMu.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex
	now  func() time.Time

	products      map[int64]*entity.Product
	nextProductID int64

	sales      []*entity.Sale // orden de inserción (ID ascendente)
	nextSaleID int64

	users      map[int64]*entity.User
	nextUserID int64
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado para CreatedAt y SaleDate.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore construye un almacén vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:      func() time.Time { return time.Now().UTC() },
		products: make(map[int64]*entity.Product),
		users:    make(map[int64]*entity.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales devuelve el libro de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Analytics devuelve el repositorio de consultas agregadas.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// readLock bloquea para lectura y devuelve el unlock. Dentro de Run (inTx)
// txMu ya está tomado por la transacción.
func (s *Store) readLock(inTx bool) func() {
	if !inTx {
		s.txMu.RLock()
	}
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		if !inTx {
			s.txMu.RUnlock()
		}
	}
}

// undoLog registra compensaciones de una transacción en curso.
type undoLog struct {
	steps []func()
}

func (u *undoLog) record(step func()) {
	if u != nil {
		u.steps = append(u.steps, step)
	}
}

// rollback aplica las compensaciones en orden inverso. Requiere s.mu tomado.
func (u *undoLog) rollback() {
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i]()
	}
	u.steps = nil
}
