package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/uow"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ProductService handles product catalog and stock operations
type ProductService struct {
	uow    uow.UnitOfWork
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(unitOfWork uow.UnitOfWork, logger *zap.Logger) *ProductService {
	return &ProductService{
		uow:    unitOfWork,
		logger: logger,
	}
}

// Create registers a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price, err := valueobject.NewMoney(req.Price, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, price, req.AllowFraction)
	if err != nil {
		return nil, err
	}

	if existing, err := s.uow.Repos().Products.FindBySKU(ctx, product.SKU); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.uow.Repos().Products.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdatePrice changes the product price
func (s *ProductService) UpdatePrice(ctx context.Context, productID uuid.UUID, req UpdatePriceRequest) (*ProductResponse, error) {
	price, err := valueobject.NewMoney(req.Price, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	var response ProductResponse
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		product, err := repos.Products.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		product.UpdatePrice(price)
		if err := repos.Products.Save(ctx, product); err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// AddStock receives stock into the product
func (s *ProductService) AddStock(ctx context.Context, productID uuid.UUID, req StockAdjustmentRequest) (*ProductResponse, error) {
	return s.adjustStock(ctx, productID, req, (*catalog.Product).AddStock)
}

// RemoveStock takes stock out of the product, for shrinkage or damage
func (s *ProductService) RemoveStock(ctx context.Context, productID uuid.UUID, req StockAdjustmentRequest) (*ProductResponse, error) {
	return s.adjustStock(ctx, productID, req, (*catalog.Product).RemoveStock)
}

func (s *ProductService) adjustStock(ctx context.Context, productID uuid.UUID, req StockAdjustmentRequest, apply func(*catalog.Product, valueobject.Quantity, string) error) (*ProductResponse, error) {
	quantity, err := valueobject.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	var response ProductResponse
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		product, err := repos.Products.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := apply(product, quantity, req.Reason); err != nil {
			return err
		}
		if err := repos.Products.Save(ctx, product); err != nil {
			return err
		}

		s.logger.Info("stock adjusted",
			zap.String("sku", product.SKU),
			zap.String("stock", product.Stock.StringFixed(3)),
			zap.String("reason", req.Reason),
		)
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.uow.Repos().Products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.uow.Repos().Products.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repos := s.uow.Repos()
	items, err := repos.Products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := repos.Products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(items))
	for i := range items {
		responses[i] = ToProductResponse(&items[i])
	}
	return responses, total, nil
}
