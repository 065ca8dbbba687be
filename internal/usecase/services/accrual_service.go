package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// accrueAllConcurrency caps the number of contracts accrued in parallel
// during a batch run.
const accrueAllConcurrency = 8

// AccrualService computes and posts simple prorated interest. The accrual
// base date for a contract is the date of its last INTEREST_ACCRUAL
// entry, or the open date when none exists, which makes a repeated run
// for the same as-of date a no-op.
type AccrualService struct {
	contractRepo repo_interfaces.ContractRepository
}

func NewAccrualService(contractRepo repo_interfaces.ContractRepository) *AccrualService {
	return &AccrualService{contractRepo: contractRepo}
}

// CalculateInterest returns balance * rate% prorated over days against a
// 365-day year, rounded half-up to 2 decimal places.
func CalculateInterest(balance, annualRatePercent decimal.Decimal, days int64) decimal.Decimal {
	if days <= 0 || !balance.IsPositive() || !annualRatePercent.IsPositive() {
		return decimal.Zero
	}
	return balance.
		Mul(annualRatePercent).
		Mul(decimal.NewFromInt(days)).
		Div(decimal.NewFromInt(36500)).
		Round(2)
}

func (s *AccrualService) AccrueForContract(ctx context.Context, req models.AccrueInterestRequest) (commons.Response[models.AccrualResultResponse], error) {
	logger.Info("accrual service accrue request", logger.Fields{
		"contractId": req.ContractID,
		"asOfDate":   req.AsOfDate,
		"actor":      req.Actor,
	})

	if err := req.Validate(); err != nil {
		logger.Error("accrual service accrue validation failed", err, nil)
		return commons.ErrorResponse[models.AccrualResultResponse]("validation failed", err.Error()), err
	}

	asOfDate, err := parseDateOrToday(req.AsOfDate)
	if err != nil {
		return commons.ErrorResponse[models.AccrualResultResponse]("validation failed", err.Error()), err
	}

	result, err := s.accrueOne(ctx, strings.TrimSpace(req.ContractID), asOfDate)
	if err != nil {
		logger.Error("accrual service accrue failed", err, logger.Fields{
			"contractId": req.ContractID,
		})
		if errors.Is(err, domain.ErrNotFound) {
			return commons.ErrorResponse[models.AccrualResultResponse](err.Error()), err
		}
		if errors.Is(err, domain.ErrInvalidOperation) {
			return commons.ErrorResponse[models.AccrualResultResponse]("validation failed", err.Error()), err
		}
		return commons.ErrorResponse[models.AccrualResultResponse]("failed to accrue interest", "Unable to accrue interest right now"), err
	}

	message := "interest accrued successfully"
	if !result.Accrued {
		message = "no interest due"
	}

	logger.Info("accrual service accrue success", logger.Fields{
		"contractId": result.ContractID,
		"accrued":    result.Accrued,
		"interest":   result.Interest,
		"days":       result.Days,
		"actor":      req.Actor,
	})

	return commons.SuccessResponse(message, result), nil
}

func (s *AccrualService) AccrueAll(ctx context.Context, req models.AccrueAllRequest) (commons.Response[models.AccrueAllResponse], error) {
	logger.Info("accrual service accrue all request", logger.Fields{
		"asOfDate": req.AsOfDate,
		"actor":    req.Actor,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccrueAllResponse]("validation failed", err.Error()), err
	}

	asOfDate, err := parseDateOrToday(req.AsOfDate)
	if err != nil {
		return commons.ErrorResponse[models.AccrueAllResponse]("validation failed", err.Error()), err
	}

	contracts, err := s.contractRepo.ListByStatus(ctx, domain.ContractStatusOpen)
	if err != nil {
		logger.Error("accrual service accrue all listing failed", err, nil)
		return commons.ErrorResponse[models.AccrueAllResponse]("failed to accrue interest", "Unable to accrue interest right now"), err
	}

	var accrued, failed atomic.Int64

	// Workers swallow per-contract errors: one bad contract must not
	// cancel the rest of the batch.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(accrueAllConcurrency)

	for _, contract := range contracts {
		contract := contract
		group.Go(func() error {
			result, accrueErr := s.accrueOne(groupCtx, contract.ID, asOfDate)
			if accrueErr != nil {
				failed.Add(1)
				logger.Error("accrual service accrue all contract failed", accrueErr, logger.Fields{
					"contractId":     contract.ID,
					"contractNumber": contract.ContractNumber,
				})
				return nil
			}
			if result.Accrued {
				accrued.Add(1)
			}
			return nil
		})
	}

	_ = group.Wait()

	response := models.AccrueAllResponse{
		AsOfDate:     asOfDate.Format(models.DateLayout),
		OpenCount:    len(contracts),
		AccruedCount: int(accrued.Load()),
		FailedCount:  int(failed.Load()),
	}

	logger.Info("accrual service accrue all completed", logger.Fields{
		"asOfDate":     response.AsOfDate,
		"openCount":    response.OpenCount,
		"accruedCount": response.AccruedCount,
		"failedCount":  response.FailedCount,
		"actor":        req.Actor,
	})

	return commons.SuccessResponse("batch accrual completed", response), nil
}

func (s *AccrualService) accrueOne(ctx context.Context, contractID string, asOfDate time.Time) (models.AccrualResultResponse, error) {
	var days int64
	var interest decimal.Decimal

	// The plan runs inside the repository's atomic unit, so base date and
	// interest are derived from state no concurrent mutation can change
	// before the entry commits. Two runs for the same as-of date cannot
	// both post: the later one sees the first entry and plans zero days.
	contract, accrued, err := s.contractRepo.ApplyAccrual(ctx, contractID, func(c domain.Contract, lastAccrual *time.Time) (decimal.Decimal, domain.Operation) {
		baseDate := c.OpenDate
		if lastAccrual != nil {
			baseDate = *lastAccrual
		}
		days = daysBetween(baseDate, asOfDate)
		interest = CalculateInterest(c.CurrentBalance, c.InterestRate, days)

		description := fmt.Sprintf("Interest accrued for %d days", days)
		if days == 1 {
			description = "Interest accrued for 1 day"
		}

		// Accrual entries carry the as-of date at noon UTC, so the next
		// run's base date lands on the same calendar day and repeats are
		// no-ops.
		return interest, domain.Operation{
			OperationDateTime: time.Date(asOfDate.Year(), asOfDate.Month(), asOfDate.Day(), 12, 0, 0, 0, time.UTC),
			Type:              domain.OperationTypeInterestAccrual,
			Amount:            interest,
			Description:       description,
		}
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.AccrualResultResponse{}, fmt.Errorf("%w: contract with id=%s not found", domain.ErrNotFound, contractID)
		}
		return models.AccrualResultResponse{}, err
	}

	result := models.AccrualResultResponse{
		ContractID:     contract.ID,
		ContractNumber: contract.ContractNumber,
		Accrued:        accrued,
		Days:           days,
		CurrentBalance: contract.CurrentBalance.StringFixed(2),
	}
	if accrued {
		result.Interest = interest.StringFixed(2)
	}

	return result, nil
}

// daysBetween counts whole calendar days from one date to another,
// ignoring the time-of-day component of either value.
func daysBetween(from, to time.Time) int64 {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int64(toDay.Sub(fromDay).Hours() / 24)
}
