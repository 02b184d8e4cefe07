package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

// Responses follow the Google JSON style guide: {"apiVersion", "data"} on
// success and {"apiVersion", "error"} on failure.
const (
	apiVersion  = "2.0"
	errorDomain = "sports-data-service"
)

type envelope struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *errorPayload `json:"error,omitempty"`
}

type errorPayload struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Errors  []errorDetail `json:"errors,omitempty"`
}

type errorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target     error
	httpStatus int
	reason     string
	status     string
}

var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	{usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
	{usecase.ErrFetchFailed, http.StatusBadGateway, "upstreamFailed", "UNAVAILABLE"},
}

var internalClass = errorClass{
	httpStatus: http.StatusInternalServerError,
	reason:     "internalError",
	status:     "INTERNAL",
}

const internalMessage = "internal server error"

func mapError(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalClass
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError maps err onto the envelope. Unclassified errors are reported
// as a generic internal error so that driver and upstream text stays out of
// responses.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := mapError(err)
	message := internalMessage
	if class.target != nil {
		message = err.Error()
	}

	writeJSON(w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorPayload{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []errorDetail{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","error":{"code":500,"message":"encode response","status":"INTERNAL"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}
