package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/creatorblue32/bonsai-medical/internal/content"
	"github.com/creatorblue32/bonsai-medical/internal/errors"
	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/services"
)

// Server holds the HTTP handlers' dependencies.
type Server struct {
	ProfileService services.ProfileService
	StudyService   services.StudyService
	Bank           *content.Bank
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// respond writes v as JSON with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decode parses the request body into v and runs struct validation.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	if err := validate.Struct(v); err != nil {
		return errors.NewBadRequestError(err.Error())
	}
	return nil
}
