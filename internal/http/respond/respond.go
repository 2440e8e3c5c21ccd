package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/pagination"
	"github.com/hongminglow/taskboard/internal/storage"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       any                 `json:"data,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
	Pagination *pagination.Info    `json:"pagination,omitempty"`
}

// Writer renders envelopes and translates errors into status codes.
type Writer struct {
	log        *zap.Logger
	exposeText bool
}

// NewWriter returns a Writer. When exposeInternal is set, 500 responses carry the error text.
func NewWriter(log *zap.Logger, exposeInternal bool) *Writer {
	return &Writer{log: log, exposeText: exposeInternal}
}

// JSON writes a success response using the common envelope.
func (rw *Writer) JSON(w http.ResponseWriter, status int, message string, data any) {
	rw.write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Page writes a success response with a pagination block.
func (rw *Writer) Page(w http.ResponseWriter, message string, data any, info pagination.Info) {
	rw.write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Pagination: &info})
}

// Error writes an error response with the shared envelope structure.
func (rw *Writer) Error(w http.ResponseWriter, status int, message string, fields ...apperr.FieldError) {
	rw.write(w, status, Envelope{Success: false, Message: message, Errors: fields})
}

// Fail maps err to a status code and writes it. This is the only place errors become HTTP.
func (rw *Writer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message, fields := rw.translate(err)
	if status >= http.StatusInternalServerError {
		rw.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	rw.Error(w, status, message, fields...)
}

func (rw *Writer) translate(err error) (int, string, []apperr.FieldError) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		return StatusFor(appErr.Kind), appErr.Message, appErr.Fields
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "Record not found", nil
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, "A record with this value already exists", nil
	case errors.Is(err, storage.ErrForeignKey):
		return http.StatusBadRequest, "Related record not found", nil
	}

	if rw.exposeText {
		return http.StatusInternalServerError, err.Error(), nil
	}
	return http.StatusInternalServerError, "Internal server error", nil
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (rw *Writer) write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rw.log.Warn("respond: encode payload failed", zap.Error(err))
	}
}
