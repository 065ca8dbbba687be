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
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repo_interfaces.UserRepository
}

func NewUserService(userRepo repo_interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Authenticate verifies a username and password pair. Failures are
// reported with the same message whether the user is missing, inactive
// or the password is wrong.
func (s *UserService) Authenticate(ctx context.Context, req models.LoginRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service authenticate request", logger.Fields{
		"username": req.Username,
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service authenticate validation failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
	}

	username := strings.TrimSpace(req.Username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: invalid username or password", domain.ErrInvalidOperation)
			return commons.ErrorResponse[models.UserResponse]("authentication failed", "invalid username or password"), err
		}
		logger.Error("user service authenticate lookup failed", err, logger.Fields{
			"username": username,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to authenticate", "Unable to authenticate right now"), err
	}

	if !user.Active {
		err = fmt.Errorf("%w: invalid username or password", domain.ErrInvalidOperation)
		return commons.ErrorResponse[models.UserResponse]("authentication failed", "invalid username or password"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		err = fmt.Errorf("%w: invalid username or password", domain.ErrInvalidOperation)
		return commons.ErrorResponse[models.UserResponse]("authentication failed", "invalid username or password"), err
	}

	logger.Info("user service authenticate success", logger.Fields{
		"username": user.Username,
		"role":     user.Role,
	})

	return commons.SuccessResponse("authenticated successfully", toUserResponse(user)), nil
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service create validation failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
	}

	username := strings.TrimSpace(req.Username)

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		err = fmt.Errorf("%w: username %s is already taken", domain.ErrInvalidOperation, username)
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("user service create uniqueness check failed", err, logger.Fields{
			"username": username,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("user service create password hashing failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	user := domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         domain.UserRole(strings.ToUpper(strings.TrimSpace(req.Role))),
		Active:       true,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		logger.Error("user service create failed", err, logger.Fields{
			"username": username,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	logger.Info("user service create success", logger.Fields{
		"userId":   created.ID,
		"username": created.Username,
		"role":     created.Role,
	})

	return commons.SuccessResponse("user created successfully", toUserResponse(created)), nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (commons.Response[models.UserResponse], error) {
	username = strings.TrimSpace(username)
	if username == "" {
		err := fmt.Errorf("username is required")
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: user %s not found", domain.ErrNotFound, username)
			return commons.ErrorResponse[models.UserResponse](err.Error()), err
		}
		logger.Error("user service get failed", err, logger.Fields{
			"username": username,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to get user", "Unable to fetch user right now"), err
	}

	return commons.SuccessResponse("user fetched successfully", toUserResponse(user)), nil
}
