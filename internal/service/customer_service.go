// backend-go/internal/service/customer_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

type CustomerService struct {
	repo repository.Repository
}

func NewCustomerService(repo repository.Repository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.repo.GetCustomer(ctx, customerID)
}

func (s *CustomerService) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	return s.repo.CreateCustomer(ctx, customer)
}

func (s *CustomerService) Update(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	return s.repo.UpdateCustomer(ctx, customer)
}

func (s *CustomerService) Delete(ctx context.Context, customerID string) error {
	return s.repo.DeleteCustomer(ctx, customerID)
}

func validateCustomer(customer domain.Customer) error {
	if strings.TrimSpace(customer.CustomerID) == "" {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(customer.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if customer.CustomerType != domain.CustomerTypeRetail && customer.CustomerType != domain.CustomerTypeWholesale {
		return fmt.Errorf("%w: customerType must be %q or %q", ErrInvalidInput,
			domain.CustomerTypeRetail, domain.CustomerTypeWholesale)
	}
	if customer.DiscountRate < 0 || customer.DiscountRate > 100 {
		return fmt.Errorf("%w: discountRate must be between 0 and 100", ErrInvalidInput)
	}
	if customer.CreditLimit < 0 {
		return fmt.Errorf("%w: creditLimit must not be negative", ErrInvalidInput)
	}

	return nil
}
