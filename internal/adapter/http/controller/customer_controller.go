package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/usecase/service_interfaces"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

type CustomerController struct {
	service service_interfaces.CustomerService
	users   service_interfaces.UserService
}

func NewCustomerController(service service_interfaces.CustomerService, users service_interfaces.UserService) *CustomerController {
	return &CustomerController{service: service, users: users}
}

func (c *CustomerController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/customers", wrap(c.customers))
	mux.Handle("/customers/details", wrap(c.details))
	mux.Handle("/customers/search", wrap(c.search))
}

func (c *CustomerController) customers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	switch r.Method {
	case http.MethodGet:
		logRequest(r, nil)
		response, err := c.service.ListCustomers(r.Context())
		if err != nil {
			status := statusFor(response.Message, err)
			writeJSON(w, status, response)
			logResponse(r, status, response, start)
			return
		}
		writeJSON(w, http.StatusOK, response)
		logResponse(r, http.StatusOK, response, start)

	case http.MethodPost:
		if _, ok := authorizeActor(w, r, c.users, services.ActionManageCustomers); !ok {
			return
		}

		var req models.CreateCustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logError(r, err, nil)
			response := commons.ErrorResponse[models.CustomerResponse]("invalid request body", err.Error())
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
		logRequest(r, req)

		response, err := c.service.CreateCustomer(r.Context(), req)
		if err != nil {
			status := statusFor(response.Message, err)
			writeJSON(w, status, response)
			logResponse(r, status, response, start)
			return
		}
		writeJSON(w, http.StatusCreated, response)
		logResponse(r, http.StatusCreated, response, start)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.CustomerResponse]("method not allowed"))
	}
}

func (c *CustomerController) details(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.CustomerResponse]("method not allowed"))
		return
	}

	response, err := c.service.GetCustomer(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CustomerController) search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.CustomerResponse]("method not allowed"))
		return
	}

	response, err := c.service.SearchCustomers(r.Context(), r.URL.Query().Get("lastName"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
