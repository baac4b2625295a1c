package sales_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProduct(t *testing.T, store *memory.Store, price, discount string, stock int) int64 {
	t.Helper()
	p := &entity.Product{Name: "Crema " + price, Category: "Cuidado facial", Price: dec(price), StockQuantity: stock}
	if discount != "" {
		d := dec(discount)
		p.DiscountPrice = &d
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p.ID
}

func stockOf(t *testing.T, store *memory.Store, id int64) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func ledgerSize(t *testing.T, store *memory.Store) int {
	t.Helper()
	list, err := store.Sales().ListAll(context.Background())
	require.NoError(t, err)
	return len(list)
}

func requireSaleErrors(t *testing.T, err error) domain.SaleErrors {
	t.Helper()
	var errs domain.SaleErrors
	require.True(t, errors.As(err, &errs), "se esperaba domain.SaleErrors, se obtuvo %v", err)
	return errs
}

type fakeRecorder struct {
	mu       sync.Mutex
	created  int
	lines    int
	rejected []domain.SaleErrorKind
	failed   int
}

func (r *fakeRecorder) SaleCreated(lines int, _ decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
	r.lines += lines
}

func (r *fakeRecorder) SaleRejected(kind domain.SaleErrorKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, kind)
}

func (r *fakeRecorder) SaleFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

// ── Venta aceptada ────────────────────────────────────────────────────────────

func TestCreateSale_EscenarioBasico(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, "100.00", "", 10)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	res, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 7,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: id, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.LinesCreated)
	assert.True(t, res.TotalAmount.Equal(dec("300.00")))
	assert.Equal(t, 7, stockOf(t, store, id))

	list, err := store.Sales().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].TotalPrice.Equal(dec("300.00")))
	assert.Equal(t, int64(7), list[0].CashierID)
	assert.Equal(t, 3, list[0].Quantity)
	assert.False(t, list[0].SaleDate.IsZero())
}

func TestCreateSale_PrecioConYSinDescuento(t *testing.T) {
	store := memory.NewStore()
	conDescuento := seedProduct(t, store, "100.00", "75.00", 5)
	sinDescuento := seedProduct(t, store, "100.00", "", 5)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	res, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines: []sales.CartLine{
			{ProductID: conDescuento, Quantity: 2},
			{ProductID: sinDescuento, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Sales, 2)

	assert.True(t, res.Sales[0].TotalPrice.Equal(dec("150.00")))
	assert.True(t, res.Sales[1].TotalPrice.Equal(dec("200.00")))
	assert.True(t, res.TotalAmount.Equal(dec("350.00")))
}

func TestCreateSale_CarritoMultipleDescuentaCadaProducto(t *testing.T) {
	store := memory.NewStore()
	a := seedProduct(t, store, "10.00", "", 4)
	b := seedProduct(t, store, "20.00", "", 9)
	c := seedProduct(t, store, "30.00", "", 1)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	res, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 2,
		Confirmed: true,
		Lines: []sales.CartLine{
			{ProductID: a, Quantity: 4},
			{ProductID: b, Quantity: 1},
			{ProductID: c, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.LinesCreated)
	assert.Equal(t, 0, stockOf(t, store, a))
	assert.Equal(t, 8, stockOf(t, store, b))
	assert.Equal(t, 0, stockOf(t, store, c))
	assert.Equal(t, 3, ledgerSize(t, store))
}

func TestCreateSale_LineasCompartenTransactionID(t *testing.T) {
	store := memory.NewStore()
	a := seedProduct(t, store, "10.00", "", 10)
	b := seedProduct(t, store, "20.00", "", 10)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)
	in := sales.CreateSaleInput{
		CashierID: 2,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: a, Quantity: 1}, {ProductID: b, Quantity: 1}},
	}

	first, err := uc.CreateSale(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.CreateSale(context.Background(), in)
	require.NoError(t, err)

	require.NotEmpty(t, first.TransactionID)
	for _, s := range first.Sales {
		assert.Equal(t, first.TransactionID, s.TransactionID)
	}
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestCreateSale_ProductoRepetidoDentroDelStock(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, "5.00", "", 6)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	res, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: id, Quantity: 3}, {ProductID: id, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.LinesCreated)
	assert.Equal(t, 0, stockOf(t, store, id))
}

// ── Rechazos ──────────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficienteNoModificaNada(t *testing.T) {
	store := memory.NewStore()
	ok := seedProduct(t, store, "10.00", "", 10)
	corto := seedProduct(t, store, "10.00", "", 2)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: ok, Quantity: 5}, {ProductID: corto, Quantity: 3}},
	})
	errs := requireSaleErrors(t, err)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.SaleErrInsufficientStock, errs[0].Kind)
	assert.Equal(t, corto, errs[0].ProductID)
	assert.Equal(t, 2, errs[0].Available)
	assert.Contains(t, errs[0].Error(), "Disponible: 2")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, stockOf(t, store, ok))
	assert.Equal(t, 2, stockOf(t, store, corto))
	assert.Zero(t, ledgerSize(t, store))
}

func TestCreateSale_AcumulaErroresEnOrden(t *testing.T) {
	store := memory.NewStore()
	a := seedProduct(t, store, "10.00", "", 10)
	b := seedProduct(t, store, "10.00", "", 1)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines: []sales.CartLine{
			{ProductID: 999, Quantity: 1},
			{ProductID: a, Quantity: 0},
			{ProductID: a, Quantity: 2},
			{ProductID: b, Quantity: 5},
			{ProductID: a, Quantity: -1},
		},
	})
	errs := requireSaleErrors(t, err)

	assert.Equal(t, []domain.SaleErrorKind{
		domain.SaleErrProductNotFound,
		domain.SaleErrInvalidQuantity,
		domain.SaleErrInsufficientStock,
		domain.SaleErrInvalidQuantity,
	}, errs.Kinds())
	assert.Equal(t, int64(999), errs[0].ProductID)
	assert.Equal(t, b, errs[2].ProductID)
	assert.Equal(t, 1, errs[2].Available)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Equal(t, 10, stockOf(t, store, a))
	assert.Zero(t, ledgerSize(t, store))
}

func TestCreateSale_ProductoRepetidoSuperaStock(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, "10.00", "", 5)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: id, Quantity: 3}, {ProductID: id, Quantity: 3}},
	})
	errs := requireSaleErrors(t, err)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.SaleErrInsufficientStock, errs[0].Kind)
	assert.Equal(t, 2, errs[0].Available)
	assert.Equal(t, 5, stockOf(t, store, id))
	assert.Zero(t, ledgerSize(t, store))
}

func TestCreateSale_SinConfirmacionNoModificaNada(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, "10.00", "", 5)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	carts := [][]sales.CartLine{
		{{ProductID: id, Quantity: 1}},
		{{ProductID: id, Quantity: 50}},
		{{ProductID: 404, Quantity: 0}},
		nil,
	}
	for _, cart := range carts {
		_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{CashierID: 1, Lines: cart})
		errs := requireSaleErrors(t, err)
		assert.Equal(t, []domain.SaleErrorKind{domain.SaleErrNotConfirmed}, errs.Kinds())
	}

	assert.Equal(t, 5, stockOf(t, store, id))
	assert.Zero(t, ledgerSize(t, store))
}

func TestCreateSale_CarritoVacio(t *testing.T) {
	uc := sales.NewCreateSaleUseCase(memory.NewStore(), nil, nil)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{CashierID: 1, Confirmed: true})
	errs := requireSaleErrors(t, err)
	assert.Equal(t, []domain.SaleErrorKind{domain.SaleErrEmptyCart}, errs.Kinds())
	assert.True(t, errs[0].IsInputError())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Atomicidad ────────────────────────────────────────────────────────────────

type failingRunner struct {
	store  *memory.Store
	failOn int
}

func (r failingRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.SaleRepository) error) error {
	return r.store.Run(ctx, func(p repository.ProductRepository, s repository.SaleRepository) error {
		return fn(p, &failingSales{SaleRepository: s, failOn: r.failOn})
	})
}

type failingSales struct {
	repository.SaleRepository
	failOn int
	calls  int
}

func (f *failingSales) Append(ctx context.Context, sale *entity.Sale) error {
	f.calls++
	if f.calls == f.failOn {
		return errors.New("disco lleno")
	}
	return f.SaleRepository.Append(ctx, sale)
}

func TestCreateSale_FallaEnRegistroRevierteLineasPrevias(t *testing.T) {
	store := memory.NewStore()
	a := seedProduct(t, store, "10.00", "", 5)
	b := seedProduct(t, store, "20.00", "", 5)
	rec := &fakeRecorder{}
	uc := sales.NewCreateSaleUseCase(failingRunner{store: store, failOn: 2}, rec, nil)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1,
		Confirmed: true,
		Lines:     []sales.CartLine{{ProductID: a, Quantity: 2}, {ProductID: b, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSaleCommitFailed)

	var errs domain.SaleErrors
	assert.False(t, errors.As(err, &errs))

	assert.Equal(t, 5, stockOf(t, store, a))
	assert.Equal(t, 5, stockOf(t, store, b))
	assert.Zero(t, ledgerSize(t, store))
	assert.Equal(t, 1, rec.failed)
	assert.Zero(t, rec.created)
}

func TestCreateSale_VentasConcurrentesNoSobrevenden(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, "1.00", "", 10)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(cashier int64) {
			defer wg.Done()
			_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
				CashierID: cashier,
				Confirmed: true,
				Lines:     []sales.CartLine{{ProductID: id, Quantity: 1}},
			})
			if err == nil {
				atomic.AddInt32(&ok, 1)
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				atomic.AddInt32(&rejected, 1)
			}
		}(int64(i))
	}
	wg.Wait()

	assert.EqualValues(t, 10, ok)
	assert.EqualValues(t, 15, rejected)
	assert.Equal(t, 0, stockOf(t, store, id))
	assert.Equal(t, 10, ledgerSize(t, store))
}

func TestCreateSale_RecorderRecibeEventos(t *testing.T) {
	store := memory.NewStore()
	id := seedProduct(t, store, "10.00", "", 1)
	rec := &fakeRecorder{}
	uc := sales.NewCreateSaleUseCase(store, rec, nil)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1, Confirmed: true, Lines: []sales.CartLine{{ProductID: id, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = uc.CreateSale(context.Background(), sales.CreateSaleInput{
		CashierID: 1, Confirmed: true, Lines: []sales.CartLine{{ProductID: id, Quantity: 1}},
	})
	require.Error(t, err)

	assert.Equal(t, 1, rec.created)
	assert.Equal(t, 1, rec.lines)
	assert.Equal(t, []domain.SaleErrorKind{domain.SaleErrInsufficientStock}, rec.rejected)
}

// ── Adaptador del request ─────────────────────────────────────────────────────

func TestCreateSaleFromRequest_ListasParalelas(t *testing.T) {
	store := memory.NewStore()
	a := seedProduct(t, store, "12.50", "", 3)
	b := seedProduct(t, store, "8.00", "6.00", 3)
	uc := sales.NewCreateSaleUseCase(store, nil, nil)

	out, err := uc.CreateSaleFromRequest(context.Background(), 4, dto.CreateSaleRequest{
		ProductIDs: []int64{a, b},
		Quantities: []int{2, 3},
		Confirmed:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.LinesCreated)
	assert.True(t, out.TotalAmount.Equal(dec("43.00")))
	require.Len(t, out.Sales, 2)
	assert.Equal(t, out.TransactionID, out.Sales[0].TransactionID)
}

func TestCreateSaleFromRequest_ErroresDeEntrada(t *testing.T) {
	uc := sales.NewCreateSaleUseCase(memory.NewStore(), nil, nil)

	cases := []struct {
		name string
		req  dto.CreateSaleRequest
		want domain.SaleErrorKind
	}{
		{"sin confirmar y vacío", dto.CreateSaleRequest{}, domain.SaleErrNotConfirmed},
		{"vacío", dto.CreateSaleRequest{Confirmed: true}, domain.SaleErrEmptyCart},
		{"sin cantidades", dto.CreateSaleRequest{Confirmed: true, ProductIDs: []int64{1}}, domain.SaleErrEmptyCart},
		{"largos distintos", dto.CreateSaleRequest{Confirmed: true, ProductIDs: []int64{1, 2}, Quantities: []int{1}}, domain.SaleErrLineCountMismatch},
		{"items y listas a la vez", dto.CreateSaleRequest{
			Confirmed:  true,
			Items:      []dto.CartItemRequest{{ProductID: 1, Quantity: 1}},
			ProductIDs: []int64{2},
			Quantities: []int{1},
		}, domain.SaleErrLineCountMismatch},
		{"items con cantidades sueltas", dto.CreateSaleRequest{
			Confirmed:  true,
			Items:      []dto.CartItemRequest{{ProductID: 1, Quantity: 1}},
			Quantities: []int{1},
		}, domain.SaleErrLineCountMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateSaleFromRequest(context.Background(), 1, tc.req)
			errs := requireSaleErrors(t, err)
			assert.Equal(t, []domain.SaleErrorKind{tc.want}, errs.Kinds())
		})
	}
}
