package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/logger"
	"github.com/api-sage/deposit-ledger/internal/usecase/service_interfaces"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

type ContractController struct {
	service service_interfaces.ContractService
	users   service_interfaces.UserService
}

func NewContractController(service service_interfaces.ContractService, users service_interfaces.UserService) *ContractController {
	return &ContractController{service: service, users: users}
}

func (c *ContractController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/contracts", wrap(c.contracts))
	mux.Handle("/contracts/details", wrap(c.details))
	mux.Handle("/contracts/deposit", wrap(c.deposit))
	mux.Handle("/contracts/withdraw", wrap(c.withdraw))
	mux.Handle("/contracts/close", wrap(c.close))
	mux.Handle("/contracts/freeze", wrap(c.freeze))
	mux.Handle("/contracts/unfreeze", wrap(c.unfreeze))
	mux.Handle("/contracts/operations", wrap(c.operations))
	mux.Handle("/contracts/by-customer", wrap(c.byCustomer))
	mux.Handle("/contracts/verify-balance", wrap(c.verifyBalance))
}

func (c *ContractController) contracts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.list(w, r)
	case http.MethodPost:
		c.open(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ContractResponse]("method not allowed"))
	}
}

func (c *ContractController) open(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := authorizeActor(w, r, c.users, services.ActionOpenContract)
	if !ok {
		return
	}

	var req models.OpenContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	req.Actor = actor
	logRequest(r, req)

	response, err := c.service.OpenContract(r.Context(), req)
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *ContractController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListContracts(r.Context())
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ContractController) details(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ContractResponse]("method not allowed"))
		return
	}

	response, err := c.service.GetContract(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ContractController) deposit(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, services.ActionDeposit, func(actor string, body []byte) (commons.Response[models.ContractResponse], error) {
		var req models.DepositRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error()), errBadBody
		}
		req.Actor = actor
		return c.service.Deposit(r.Context(), req)
	})
}

func (c *ContractController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, services.ActionWithdraw, func(actor string, body []byte) (commons.Response[models.ContractResponse], error) {
		var req models.WithdrawRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error()), errBadBody
		}
		req.Actor = actor
		return c.service.Withdraw(r.Context(), req)
	})
}

func (c *ContractController) close(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, services.ActionCloseContract, func(actor string, body []byte) (commons.Response[models.ContractResponse], error) {
		var req models.CloseContractRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error()), errBadBody
		}
		req.Actor = actor
		return c.service.CloseContract(r.Context(), req)
	})
}

func (c *ContractController) freeze(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, services.ActionFreezeContract, func(actor string, body []byte) (commons.Response[models.ContractResponse], error) {
		var req models.ContractStatusRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error()), errBadBody
		}
		req.Actor = actor
		return c.service.FreezeContract(r.Context(), req)
	})
}

func (c *ContractController) unfreeze(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, services.ActionUnfreezeContract, func(actor string, body []byte) (commons.Response[models.ContractResponse], error) {
		var req models.ContractStatusRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error()), errBadBody
		}
		req.Actor = actor
		return c.service.UnfreezeContract(r.Context(), req)
	})
}

func (c *ContractController) operations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.OperationResponse]("method not allowed"))
		return
	}

	query := r.URL.Query()
	response, err := c.service.ListOperations(r.Context(),
		query.Get("contractId"), query.Get("fromDate"), query.Get("toDate"), query.Get("type"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ContractController) byCustomer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.ContractResponse]("method not allowed"))
		return
	}

	response, err := c.service.ListContractsByCustomer(r.Context(), r.URL.Query().Get("customerId"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ContractController) verifyBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.BalanceAuditResponse]("method not allowed"))
		return
	}

	if _, ok := authorizeActor(w, r, c.users, services.ActionVerifyBalances); !ok {
		return
	}

	response, err := c.service.VerifyContractBalance(r.Context(), r.URL.Query().Get("contractId"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ContractController) mutate(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	invoke func(actor string, body []byte) (commons.Response[models.ContractResponse], error),
) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ContractResponse]("method not allowed"))
		return
	}

	actor, ok := authorizeActor(w, r, c.users, action)
	if !ok {
		return
	}

	body, err := readBody(r)
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ContractResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := invoke(actor, body)
	if err != nil {
		status := statusFor(response.Message, err)
		if err == errBadBody {
			status = http.StatusBadRequest
		}
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
