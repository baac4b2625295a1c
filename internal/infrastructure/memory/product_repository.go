package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria. Con undo != nil opera dentro de Store.Run.
type ProductRepo struct {
	s    *Store
	undo *undoLog
}

// write ejecuta fn con el lock de escritura. Fuera de una transacción también
// toma txMu para no intercalarse con una venta en curso.
func (r *ProductRepo) write(fn func() error) error {
	if r.undo == nil {
		r.s.txMu.Lock()
		defer r.s.txMu.Unlock()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn()
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.StockQuantity < 0 {
		return fmt.Errorf("%w: stock negativo", domain.ErrInvalidInput)
	}
	return r.write(func() error {
		r.s.nextProductID++
		product.ID = r.s.nextProductID
		product.CreatedAt = r.s.now()
		r.s.products[product.ID] = product.Clone()
		id := product.ID
		r.undo.record(func() { delete(r.s.products, id) })
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	defer r.s.readLock(r.undo != nil)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// GetForUpdate equivale a GetByID: Store.Run ya tiene la exclusión.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// replace sustituye el producto registrando el estado previo. Requiere s.mu tomado.
func (r *ProductRepo) replace(prev, next *entity.Product) {
	r.s.products[next.ID] = next
	r.undo.record(func() { r.s.products[prev.ID] = prev })
}

func (r *ProductRepo) Update(_ context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock negativo", domain.ErrInvalidInput)
	}
	var out *entity.Product
	err := r.write(func() error {
		prev, ok := r.s.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		next := prev.Clone()
		applyPatch(next, patch)
		r.replace(prev, next)
		out = next.Clone()
		return nil
	})
	return out, err
}

// applyPatch copia sobre p los campos informados.
func applyPatch(p *entity.Product, patch repository.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Article != nil {
		p.Article = *patch.Article
	}
	if patch.Package != nil {
		p.Package = *patch.Package
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		p.StockQuantity = *patch.StockQuantity
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
}

func (r *ProductRepo) SetDiscount(_ context.Context, id int64, discount *decimal.Decimal) error {
	return r.write(func() error {
		prev, ok := r.s.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		next := prev.Clone()
		next.DiscountPrice = nil
		if discount != nil {
			d := *discount
			next.DiscountPrice = &d
		}
		r.replace(prev, next)
		return nil
	})
}

func (r *ProductRepo) DecrementStock(_ context.Context, id int64, by int) (*entity.Product, error) {
	if by <= 0 {
		return nil, fmt.Errorf("%w: cantidad a descontar %d", domain.ErrInvalidInput, by)
	}
	var out *entity.Product
	err := r.write(func() error {
		prev, ok := r.s.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		if prev.StockQuantity < by {
			return fmt.Errorf("%w: producto %d stock %d, descuento %d",
				domain.ErrStockInvariant, id, prev.StockQuantity, by)
		}
		next := prev.Clone()
		next.StockQuantity -= by
		r.replace(prev, next)
		out = next.Clone()
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	q := strings.ToLower(strings.TrimSpace(filter.NameQuery))

	defer r.s.readLock(r.undo != nil)()
	var out []*entity.Product
	for _, p := range r.s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if filter.OnlyInStock && !p.InStock() {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProductRepo) Categories(_ context.Context) ([]string, error) {
	defer r.s.readLock(r.undo != nil)()
	seen := make(map[string]struct{})
	var out []string
	for _, p := range r.s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.write(func() error {
		prev, ok := r.s.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		delete(r.s.products, id)
		r.undo.record(func() { r.s.products[id] = prev })
		return nil
	})
}
