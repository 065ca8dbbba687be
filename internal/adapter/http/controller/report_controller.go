package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/usecase/service_interfaces"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

type ReportController struct {
	service service_interfaces.ReportService
	users   service_interfaces.UserService
}

func NewReportController(service service_interfaces.ReportService, users service_interfaces.UserService) *ReportController {
	return &ReportController{service: service, users: users}
}

func (c *ReportController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/reports/operations", wrap(c.operations))
	mux.Handle("/reports/customer-contracts", wrap(c.customerContracts))
}

func (c *ReportController) operations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.OperationResponse]("method not allowed"))
		return
	}

	if _, ok := authorizeActor(w, r, c.users, services.ActionViewReports); !ok {
		return
	}

	query := r.URL.Query()
	response, err := c.service.OperationsReport(r.Context(),
		query.Get("fromDate"), query.Get("toDate"), query.Get("type"), query.Get("customerId"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ReportController) customerContracts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.ContractResponse]("method not allowed"))
		return
	}

	if _, ok := authorizeActor(w, r, c.users, services.ActionViewReports); !ok {
		return
	}

	query := r.URL.Query()
	activeOnly := query.Get("activeOnly") == "true"

	response, err := c.service.ContractsByCustomer(r.Context(), query.Get("customerId"), activeOnly)
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
