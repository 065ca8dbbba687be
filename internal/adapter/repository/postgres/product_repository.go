package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, min_amount, max_amount, term_months, base_interest_rate, allow_replenishment, allow_partial_withdrawal, capitalization, created_at, updated_at`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	logger.Info("product repository create", logger.Fields{
		"name": product.Name,
	})

	const query = `
INSERT INTO deposit_products (
	name,
	description,
	min_amount,
	max_amount,
	term_months,
	base_interest_rate,
	allow_replenishment,
	allow_partial_withdrawal,
	capitalization
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		nullableDecimal(product.MinAmount),
		nullableDecimal(product.MaxAmount),
		product.TermMonths,
		product.BaseInterestRate,
		product.AllowReplenishment,
		product.AllowPartialWithdrawal,
		product.Capitalization,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		logger.Error("product repository create failed", err, logger.Fields{
			"name": product.Name,
		})
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM deposit_products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		logger.Error("product repository get failed", err, logger.Fields{
			"productId": id,
		})
		return domain.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM deposit_products ORDER BY name`
	return r.queryProducts(ctx, query)
}

func (r *ProductRepository) SearchByName(ctx context.Context, namePart string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM deposit_products WHERE name ILIKE '%' || $1 || '%' ORDER BY name`
	return r.queryProducts(ctx, query, namePart)
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("product repository list failed", err, nil)
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	var minAmount decimal.NullDecimal
	var maxAmount decimal.NullDecimal

	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&minAmount,
		&maxAmount,
		&product.TermMonths,
		&product.BaseInterestRate,
		&product.AllowReplenishment,
		&product.AllowPartialWithdrawal,
		&product.Capitalization,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}

	if minAmount.Valid {
		v := minAmount.Decimal
		product.MinAmount = &v
	}
	if maxAmount.Valid {
		v := maxAmount.Decimal
		product.MaxAmount = &v
	}

	return product, nil
}
