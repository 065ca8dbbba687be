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

type AccrualController struct {
	service service_interfaces.AccrualService
	users   service_interfaces.UserService
}

func NewAccrualController(service service_interfaces.AccrualService, users service_interfaces.UserService) *AccrualController {
	return &AccrualController{service: service, users: users}
}

func (c *AccrualController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/interest/accrue", wrap(c.accrue))
	mux.Handle("/interest/accrue-all", wrap(c.accrueAll))
}

func (c *AccrualController) accrue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccrualResultResponse]("method not allowed"))
		return
	}

	actor, ok := authorizeActor(w, r, c.users, services.ActionAccrueInterest)
	if !ok {
		return
	}

	var req models.AccrueInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccrualResultResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	req.Actor = actor
	logRequest(r, req)

	response, err := c.service.AccrueForContract(r.Context(), req)
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccrualController) accrueAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccrueAllResponse]("method not allowed"))
		return
	}

	actor, ok := authorizeActor(w, r, c.users, services.ActionAccrueInterest)
	if !ok {
		return
	}

	var req models.AccrueAllRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logError(r, err, nil)
			response := commons.ErrorResponse[models.AccrueAllResponse]("invalid request body", err.Error())
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
	}
	req.Actor = actor
	logRequest(r, req)

	response, err := c.service.AccrueAll(r.Context(), req)
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
