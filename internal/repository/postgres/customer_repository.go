// backend-go/internal/repository/postgres/customer_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

const customerColumns = `
	customer_id, customer_name, contact_person, email, phone, address,
	customer_type, discount_rate, credit_limit, payment_terms,
	created_at, updated_at
`

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY customer_id`

	customers := []domain.Customer{}
	if err := sqlx.SelectContext(ctx, s.db, &customers, query); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

func (s *Store) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`

	var customer domain.Customer
	err := sqlx.GetContext(ctx, s.db, &customer, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}

	return &customer, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	query := `
		INSERT INTO customers (
			customer_id, customer_name, contact_person, email, phone, address,
			customer_type, discount_rate, credit_limit, payment_terms,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.CustomerName,
		customer.ContactPerson,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.CustomerType,
		customer.DiscountRate,
		customer.CreditLimit,
		customer.PaymentTerms,
		now,
	)
	if err != nil {
		return nil, translateErr(fmt.Errorf("failed to insert customer: %w", err))
	}

	customer.CreatedAt = now
	customer.UpdatedAt = now

	return &customer, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	query := `
		UPDATE customers SET
			customer_name = $2,
			contact_person = $3,
			email = $4,
			phone = $5,
			address = $6,
			customer_type = $7,
			discount_rate = $8,
			credit_limit = $9,
			payment_terms = $10,
			updated_at = $11
		WHERE customer_id = $1
	`

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.CustomerName,
		customer.ContactPerson,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.CustomerType,
		customer.DiscountRate,
		customer.CreditLimit,
		customer.PaymentTerms,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", customer.CustomerID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, repository.ErrNotFound
	}

	customer.UpdatedAt = now

	return &customer, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, customerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
