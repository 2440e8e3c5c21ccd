package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/auth"
	"github.com/hongminglow/taskboard/internal/models"
)

const maxBodyBytes = 10 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.BadRequest("Request body too large")
		}
		return apperr.BadRequest("Invalid JSON payload")
	}
	return nil
}

// pathID reads and validates the {id} URL parameter.
func pathID(r *http.Request, message string) (string, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Validation([]apperr.FieldError{{Field: "id", Message: message}})
	}
	return id.String(), nil
}

func principal(r *http.Request) (models.Principal, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return models.Principal{}, apperr.Unauthorized("Authentication required")
	}
	return p, nil
}
