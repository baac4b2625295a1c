package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, article, package, category, price, discount_price, stock_quantity, description, created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var discount decimal.NullDecimal
	if err := row.Scan(
		&p.ID, &p.Name, &p.Article, &p.Package, &p.Category, &p.Price, &discount,
		&p.StockQuantity, &p.Description, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if discount.Valid {
		d := discount.Decimal
		p.DiscountPrice = &d
	}
	return &p, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// Create persiste un nuevo producto y completa ID y CreatedAt.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (name, article, package, category, price, discount_price, stock_quantity, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Article, product.Package, product.Category, product.Price,
		nullableDecimal(product.DiscountPrice), product.StockQuantity, product.Description,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update escribe solo las columnas presentes en el patch (UPDATE ... RETURNING).
// stock_quantity queda fuera de la sentencia si no se informa.
func (r *ProductRepo) Update(ctx context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	if patch.IsEmpty() {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrProductNotFound
		}
		return p, nil
	}

	args := []any{id}
	var sets []string
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Article != nil {
		set("article", *patch.Article)
	}
	if patch.Package != nil {
		set("package", *patch.Package)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.StockQuantity != nil {
		set("stock_quantity", *patch.StockQuantity)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}

	query := `UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		if isCheckViolation(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// SetDiscount fija o elimina (nil) el precio de descuento.
func (r *ProductRepo) SetDiscount(ctx context.Context, id int64, discount *decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET discount_price = $2 WHERE id = $1`, id, nullableDecimal(discount))
	if err != nil {
		return fmt.Errorf("set discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock resta unidades solo si el resultado no queda negativo.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, by int) (*entity.Product, error) {
	if by <= 0 {
		return nil, fmt.Errorf("%w: cantidad a descontar %d", domain.ErrInvalidInput, by)
	}
	query := `
		UPDATE products SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, by))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrProductNotFound
	}
	return nil, fmt.Errorf("%w: producto %d stock %d, descuento %d",
		domain.ErrStockInvariant, id, current.StockQuantity, by)
}

// List devuelve el catálogo ordenado por nombre aplicando el filtro.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var conds []string
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.NameQuery); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.OnlyInStock {
		conds = append(conds, "stock_quantity > 0")
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Categories devuelve las categorías distintas en orden alfabético.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete elimina un producto. Las ventas históricas se conservan.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
