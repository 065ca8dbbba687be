package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
)

const customerColumns = `id, last_name, first_name, middle_name, document_number, phone, email, created_at, updated_at`

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	logger.Info("customer repository create", logger.Fields{
		"lastName":  customer.LastName,
		"firstName": customer.FirstName,
	})

	const query = `
INSERT INTO customers (
	last_name,
	first_name,
	middle_name,
	document_number,
	phone,
	email
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		customer.LastName,
		customer.FirstName,
		customer.MiddleName,
		customer.DocumentNumber,
		customer.Phone,
		customer.Email,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
		logger.Error("customer repository create failed", err, logger.Fields{
			"lastName": customer.LastName,
		})
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrNotFound
		}
		logger.Error("customer repository get failed", err, logger.Fields{
			"customerId": id,
		})
		return domain.Customer{}, fmt.Errorf("get customer by id: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY last_name, first_name`
	return r.queryCustomers(ctx, query)
}

func (r *CustomerRepository) SearchByLastName(ctx context.Context, lastNamePart string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE last_name ILIKE '%' || $1 || '%' ORDER BY last_name, first_name`
	return r.queryCustomers(ctx, query, lastNamePart)
}

func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		logger.Error("customer repository exists failed", err, logger.Fields{
			"customerId": id,
		})
		return false, fmt.Errorf("check customer exists: %w", err)
	}

	return exists, nil
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("customer repository list failed", err, nil)
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var customer domain.Customer

	if err := row.Scan(
		&customer.ID,
		&customer.LastName,
		&customer.FirstName,
		&customer.MiddleName,
		&customer.DocumentNumber,
		&customer.Phone,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}
