package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/pricing"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. El stock solo baja por ventas;
// aquí se fija al crear el producto o cuando la edición lo informa.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: nombre y categoría son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: el precio debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.DiscountPrice != nil && !in.DiscountPrice.IsPositive() {
		return nil, fmt.Errorf("%w: el precio de descuento debe ser mayor que cero", domain.ErrInvalidInput)
	}
	product := &entity.Product{
		Name:          strings.TrimSpace(in.Name),
		Article:       in.Article,
		Package:       in.Package,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		StockQuantity: in.StockQuantity,
		Description:   in.Description,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// Update aplica los campos presentes en una sola escritura. No modifica el descuento
// y deja el stock intacto salvo que el request lo informe.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	patch := repository.ProductPatch{
		Article:     in.Article,
		Package:     in.Package,
		Description: in.Description,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre y categoría son obligatorios", domain.ErrInvalidInput)
		}
		patch.Name = &name
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: nombre y categoría son obligatorios", domain.ErrInvalidInput)
		}
		patch.Category = &category
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, fmt.Errorf("%w: el precio debe ser mayor que cero", domain.ErrInvalidInput)
		}
		patch.Price = in.Price
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		patch.StockQuantity = in.StockQuantity
	}

	product, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetDiscount fija el precio de descuento; nil lo elimina. Un valor <= 0 se rechaza.
func (uc *ProductUseCase) SetDiscount(ctx context.Context, id int64, discount *decimal.Decimal) (*dto.ProductResponse, error) {
	if discount != nil && !discount.IsPositive() {
		return nil, fmt.Errorf("%w: el precio de descuento debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if err := uc.repo.SetDiscount(ctx, id, discount); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List devuelve el catálogo filtrado y las categorías existentes.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category:    in.Category,
		NameQuery:   in.Search,
		OnlyInStock: in.OnlyInStock,
	})
	if err != nil {
		return nil, err
	}
	categories, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(list)), Categories: categories}
	for _, p := range list {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	return out, nil
}

// Categories lista las categorías distintas.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.Categories(ctx)
}

// Delete elimina un producto. Las ventas registradas no se tocan.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Article:        p.Article,
		Package:        p.Package,
		Category:       p.Category,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: pricing.ResolveUnitPrice(p),
		StockQuantity:  p.StockQuantity,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
	}
}
