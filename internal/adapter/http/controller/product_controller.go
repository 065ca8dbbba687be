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

type ProductController struct {
	service service_interfaces.ProductService
	users   service_interfaces.UserService
}

func NewProductController(service service_interfaces.ProductService, users service_interfaces.UserService) *ProductController {
	return &ProductController{service: service, users: users}
}

func (c *ProductController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/products", wrap(c.products))
	mux.Handle("/products/details", wrap(c.details))
	mux.Handle("/products/search", wrap(c.search))
}

func (c *ProductController) products(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	switch r.Method {
	case http.MethodGet:
		logRequest(r, nil)
		response, err := c.service.ListProducts(r.Context())
		if err != nil {
			status := statusFor(response.Message, err)
			writeJSON(w, status, response)
			logResponse(r, status, response, start)
			return
		}
		writeJSON(w, http.StatusOK, response)
		logResponse(r, http.StatusOK, response, start)

	case http.MethodPost:
		if _, ok := authorizeActor(w, r, c.users, services.ActionManageProducts); !ok {
			return
		}

		var req models.CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logError(r, err, nil)
			response := commons.ErrorResponse[models.ProductResponse]("invalid request body", err.Error())
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
		logRequest(r, req)

		response, err := c.service.CreateProduct(r.Context(), req)
		if err != nil {
			status := statusFor(response.Message, err)
			writeJSON(w, status, response)
			logResponse(r, status, response, start)
			return
		}
		writeJSON(w, http.StatusCreated, response)
		logResponse(r, http.StatusCreated, response, start)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ProductResponse]("method not allowed"))
	}
}

func (c *ProductController) details(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ProductResponse]("method not allowed"))
		return
	}

	response, err := c.service.GetProduct(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *ProductController) search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.ProductResponse]("method not allowed"))
		return
	}

	response, err := c.service.SearchProducts(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
