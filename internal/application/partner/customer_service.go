package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/uow"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CustomerService handles customer management and credit collection
type CustomerService struct {
	uow    uow.UnitOfWork
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(unitOfWork uow.UnitOfWork, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		uow:    unitOfWork,
		logger: logger,
	}
}

// Create registers a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.DocumentNumber)
	if err != nil {
		return nil, err
	}
	customer.UpdateContact(req.Phone, req.Email)

	if req.CreditLimit != nil {
		limit, err := valueobject.NewMoney(*req.CreditLimit, valueobject.PEN)
		if err != nil {
			return nil, err
		}
		customer.SetCreditLimit(limit)
	}

	if err := s.uow.Repos().Customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// UpdateCreditLimit replaces the customer's credit limit
func (s *CustomerService) UpdateCreditLimit(ctx context.Context, customerID uuid.UUID, req UpdateCreditLimitRequest) (*CustomerResponse, error) {
	limit, err := valueobject.NewMoney(req.CreditLimit, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	var response CustomerResponse
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		customer, err := repos.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		customer.SetCreditLimit(limit)
		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
		response = ToCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CollectPayment records a customer's debt payment taken during a
// register session: the debt goes down and, for cash payments, the
// drawer goes up, in one unit of work. Card and transfer payments
// leave the drawer untouched.
func (s *CustomerService) CollectPayment(ctx context.Context, customerID uuid.UUID, req CollectPaymentRequest) (*CustomerResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.PEN)
	if err != nil {
		return nil, err
	}
	method := partner.CreditPaymentMethod(req.Method)

	var response CustomerResponse
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		customer, err := repos.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		var reg *register.CashRegister
		if method == partner.CreditPaymentCash {
			reg, err = repos.Registers.FindByIDForUpdate(ctx, req.RegisterID)
			if err != nil {
				return err
			}
		}

		if err := customer.RegisterPayment(amount, method, &req.RegisterID, req.Notes); err != nil {
			return err
		}
		if reg != nil {
			if err := reg.RegisterCreditPayment(customer.ID, amount); err != nil {
				return err
			}
			if err := repos.Registers.Save(ctx, reg); err != nil {
				return err
			}
		}

		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}

		s.logger.Info("credit payment collected",
			zap.String("customer_id", customer.ID.String()),
			zap.String("method", req.Method),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("remaining_debt", customer.CurrentDebt.StringFixed(2)),
		)
		response = ToCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// AdjustDebt lowers a customer's debt without a payment, for write-offs
// and corrections. The drawer is not touched.
func (s *CustomerService) AdjustDebt(ctx context.Context, customerID uuid.UUID, req AdjustDebtRequest) (*CustomerResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	var response CustomerResponse
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		customer, err := repos.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if err := customer.ReduceDebt(amount, req.Notes); err != nil {
			return err
		}
		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}

		s.logger.Info("debt adjusted",
			zap.String("customer_id", customer.ID.String()),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("remaining_debt", customer.CurrentDebt.StringFixed(2)),
		)
		response = ToCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.uow.Repos().Customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByDocument retrieves a customer by document number
func (s *CustomerService) GetByDocument(ctx context.Context, documentNumber string) (*CustomerResponse, error) {
	customer, err := s.uow.Repos().Customers.FindByDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with pagination
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repos := s.uow.Repos()
	items, err := repos.Customers.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := repos.Customers.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(items))
	for i := range items {
		responses[i] = ToCustomerResponse(&items[i])
	}
	return responses, total, nil
}

// ListDebtors retrieves active customers with outstanding debt
func (s *CustomerService) ListDebtors(ctx context.Context, filter shared.Filter) ([]CustomerResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, err := s.uow.Repos().Customers.FindDebtors(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, len(items))
	for i := range items {
		responses[i] = ToCustomerResponse(&items[i])
	}
	return responses, nil
}
