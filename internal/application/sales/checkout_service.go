package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/uow"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CheckoutService orchestrates the checkout use case: one checkout
// mutates the sale, the register, the customer and product stock inside
// a single unit of work, so a failure in any step leaves no trace.
type CheckoutService struct {
	uow    uow.UnitOfWork
	events shared.EventPublisher
	logger *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(unitOfWork uow.UnitOfWork, publisher shared.EventPublisher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		uow:    unitOfWork,
		events: publisher,
		logger: logger,
	}
}

// publishEvents hands the sale's pending domain events to the publisher
// once the unit of work has committed
func (s *CheckoutService) publishEvents(ctx context.Context, sale *sales.Sale) {
	pending := sale.GetDomainEvents()
	if len(pending) == 0 {
		return
	}
	if err := s.events.Publish(ctx, pending...); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
	sale.ClearDomainEvents()
}

// Checkout executes a full sale: it locates the cashier's open register,
// builds a pending sale with prices snapshotted from the catalog,
// deducts stock per item, applies payments, books customer debt for
// credit sales, completes the sale and records the cash portion on the
// register. Everything commits or nothing does.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*SaleResponse, error) {
	if req.IsCredit && req.CustomerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Credit sales require a customer")
	}

	var response SaleResponse
	var sale *sales.Sale
	err := s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		reg, err := repos.Registers.FindOpenByUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		var customer *partner.Customer
		if req.CustomerID != nil {
			customer, err = repos.Customers.FindByIDForUpdate(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
		}

		number, err := repos.Sales.NextNumber(ctx)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(number, reg.ID, req.CustomerID, req.IsCredit)
		if err != nil {
			return err
		}

		// A basket may repeat a product across lines. Each product is
		// loaded once and reused, so every line's stock check runs
		// against the deductions of the lines before it.
		products := make(map[uuid.UUID]*catalog.Product, len(req.Items))
		productOrder := make([]uuid.UUID, 0, len(req.Items))
		for _, line := range req.Items {
			product, loaded := products[line.ProductID]
			if !loaded {
				product, err = repos.Products.FindByIDForUpdate(ctx, line.ProductID)
				if err != nil {
					return err
				}
				products[line.ProductID] = product
				productOrder = append(productOrder, line.ProductID)
			}

			quantity, err := valueobject.NewQuantity(line.Quantity)
			if err != nil {
				return err
			}

			unitPrice := product.GetPriceMoney()
			if line.UnitPrice != nil {
				unitPrice, err = valueobject.NewMoney(*line.UnitPrice, valueobject.PEN)
				if err != nil {
					return err
				}
			}

			discountPct := valueobject.ZeroPercentage()
			if line.DiscountPct != nil {
				discountPct, err = valueobject.NewPercentage(*line.DiscountPct)
				if err != nil {
					return err
				}
			}

			if err := sale.AddItem(product.ID, product.Name, quantity, unitPrice, discountPct, product.AllowFraction); err != nil {
				return err
			}
			if err := product.RemoveStock(quantity, "Sale "+number); err != nil {
				return err
			}
		}

		if req.Discount != nil {
			discount, err := valueobject.NewMoney(*req.Discount, valueobject.PEN)
			if err != nil {
				return err
			}
			if err := sale.ApplyDiscount(discount); err != nil {
				return err
			}
		}

		for _, p := range req.Payments {
			amount, err := valueobject.NewMoney(p.Amount, valueobject.PEN)
			if err != nil {
				return err
			}
			if err := sale.AddPayment(sales.PaymentMethod(p.Method), amount, p.Reference); err != nil {
				return err
			}
		}

		if req.IsCredit {
			if err := customer.AddDebt(sale.GetTotalMoney(), &sale.ID); err != nil {
				return err
			}
		}

		if err := sale.Complete(); err != nil {
			return err
		}

		if !req.IsCredit {
			if cash := sale.CashPaid(); cash.IsPositive() {
				reg, err = repos.Registers.FindByIDForUpdate(ctx, reg.ID)
				if err != nil {
					return err
				}
				if err := reg.RegisterSale(sale.ID, cash); err != nil {
					return err
				}
				if err := repos.Registers.Save(ctx, reg); err != nil {
					return err
				}
			}
		}

		for _, productID := range productOrder {
			if err := repos.Products.Save(ctx, products[productID]); err != nil {
				return err
			}
		}
		if customer != nil && req.IsCredit {
			if err := repos.Customers.Save(ctx, customer); err != nil {
				return err
			}
		}
		if err := repos.Sales.Save(ctx, sale); err != nil {
			return err
		}

		s.logger.Info("checkout completed",
			zap.String("number", sale.Number),
			zap.String("total", sale.Total.StringFixed(2)),
			zap.Bool("is_credit", sale.IsCredit),
		)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sale)
	return &response, nil
}

// CancelSale cancels a sale and restores its stock with return
// movements. Register cash taken and customer debt booked by the
// original checkout are intentionally left untouched; correcting them
// is a manual adjustment, not part of cancellation.
func (s *CheckoutService) CancelSale(ctx context.Context, saleID uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	var response SaleResponse
	var sale *sales.Sale
	err := s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		sale, err = repos.Sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		for _, item := range sale.Items {
			product, err := repos.Products.FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := product.ReturnStock(item.GetQuantity(), "Cancelled sale "+sale.Number); err != nil {
				return err
			}
			if err := repos.Products.Save(ctx, product); err != nil {
				return err
			}
		}

		if err := sale.Cancel(req.Reason); err != nil {
			return err
		}
		if err := repos.Sales.Save(ctx, sale); err != nil {
			return err
		}

		s.logger.Info("sale cancelled",
			zap.String("number", sale.Number),
			zap.String("reason", req.Reason),
		)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *CheckoutService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.uow.Repos().Sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByNumber retrieves a sale by its sale number
func (s *CheckoutService) GetByNumber(ctx context.Context, number string) (*SaleResponse, error) {
	sale, err := s.uow.Repos().Sales.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with pagination
func (s *CheckoutService) List(ctx context.Context, filter shared.Filter) ([]SaleListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repos := s.uow.Repos()
	items, err := repos.Sales.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := repos.Sales.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleListItemResponse, len(items))
	for i := range items {
		responses[i] = ToSaleListItemResponse(&items[i])
	}
	return responses, total, nil
}
