package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
)

type ProductService struct {
	productRepo repo_interfaces.ProductRepository
}

func NewProductService(productRepo repo_interfaces.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (commons.Response[models.ProductResponse], error) {
	logger.Info("product service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("product service create validation failed", err, nil)
		return commons.ErrorResponse[models.ProductResponse]("validation failed", err.Error()), err
	}

	product := domain.Product{
		Name:                   strings.TrimSpace(req.Name),
		Description:            strings.TrimSpace(req.Description),
		MinAmount:              req.MinAmount,
		MaxAmount:              req.MaxAmount,
		TermMonths:             req.TermMonths,
		BaseInterestRate:       req.BaseInterestRate,
		AllowReplenishment:     req.AllowReplenishment,
		AllowPartialWithdrawal: req.AllowPartialWithdrawal,
		Capitalization:         req.Capitalization,
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		logger.Error("product service create failed", err, logger.Fields{
			"name": product.Name,
		})
		return commons.ErrorResponse[models.ProductResponse]("failed to create product", "Unable to create product right now"), err
	}

	logger.Info("product service create success", logger.Fields{
		"productId": created.ID,
		"name":      created.Name,
	})

	return commons.SuccessResponse("product created successfully", toProductResponse(created)), nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (commons.Response[models.ProductResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := fmt.Errorf("product id is required")
		return commons.ErrorResponse[models.ProductResponse]("validation failed", err.Error()), err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: deposit product with id=%s not found", domain.ErrNotFound, id)
			return commons.ErrorResponse[models.ProductResponse](err.Error()), err
		}
		logger.Error("product service get failed", err, logger.Fields{
			"productId": id,
		})
		return commons.ErrorResponse[models.ProductResponse]("failed to get product", "Unable to fetch product right now"), err
	}

	return commons.SuccessResponse("product fetched successfully", toProductResponse(product)), nil
}

func (s *ProductService) ListProducts(ctx context.Context) (commons.Response[[]models.ProductResponse], error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		logger.Error("product service list failed", err, nil)
		return commons.ErrorResponse[[]models.ProductResponse]("failed to list products", "Unable to fetch products right now"), err
	}

	responses := make([]models.ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	return commons.SuccessResponse("products fetched successfully", responses), nil
}

func (s *ProductService) SearchProducts(ctx context.Context, namePart string) (commons.Response[[]models.ProductResponse], error) {
	namePart = strings.TrimSpace(namePart)

	products, err := s.productRepo.SearchByName(ctx, namePart)
	if err != nil {
		logger.Error("product service search failed", err, logger.Fields{
			"namePart": namePart,
		})
		return commons.ErrorResponse[[]models.ProductResponse]("failed to search products", "Unable to search products right now"), err
	}

	responses := make([]models.ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	return commons.SuccessResponse("products fetched successfully", responses), nil
}
