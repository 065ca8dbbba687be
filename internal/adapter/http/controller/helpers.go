package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/usecase/service_interfaces"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

const actorHeader = "X-Actor"

// errBadBody marks a request body that failed to decode, so handlers can
// distinguish it from service errors when picking a status code.
var errBadBody = errors.New("invalid request body")

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusFor(message string, err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	case message == "validation failed":
		return http.StatusBadRequest
	case message == "authentication failed":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// authorizeActor resolves the X-Actor header to a user and checks the
// role table for the requested action. On failure it writes the error
// response itself and returns ok=false.
func authorizeActor(w http.ResponseWriter, r *http.Request, users service_interfaces.UserService, action string) (string, bool) {
	actor := strings.TrimSpace(r.Header.Get(actorHeader))
	if actor == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[any]("validation failed", "X-Actor header is required"))
		return "", false
	}

	response, err := users.GetUser(r.Context(), actor)
	if err != nil {
		status := http.StatusForbidden
		if !errors.Is(err, domain.ErrNotFound) {
			status = http.StatusInternalServerError
		}
		logError(r, err, nil)
		writeJSON(w, status, commons.ErrorResponse[any]("forbidden", "unknown actor"))
		return "", false
	}

	user := response.Data
	if user == nil || !user.Active || !services.RoleAllows(domain.UserRole(user.Role), action) {
		writeJSON(w, http.StatusForbidden, commons.ErrorResponse[any]("forbidden", "actor is not allowed to perform this action"))
		return "", false
	}

	return actor, true
}
