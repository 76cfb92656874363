package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"todoapp/shared/constant"
	"todoapp/shared/dto"
	"todoapp/shared/failure"
	"todoapp/shared/logger"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data       T               `json:"data"`
	Message    string          `json:"message,omitempty"`
	Pagination *dto.Pagination `json:"pagination,omitempty"`
}

type Error struct {
	Error *failure.Failure `json:"error"`
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Data: jsonPayload})
}

// WithJSONMessage sends a JSON object together with a human readable message
func WithJSONMessage(writer http.ResponseWriter, code int, jsonPayload any, message string) {
	response(writer, code, Data[any]{Data: jsonPayload, Message: message})
}

// WithPagination sends a page of items along with its pagination block
func WithPagination(writer http.ResponseWriter, code int, items any, pagination dto.Pagination) {
	response(writer, code, Data[any]{Data: items, Pagination: &pagination})
}

// WithNoContent sends an empty 204 response
func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// WithError sends the error envelope. Errors that are not a failure.Failure are logged and
// reported as a generic internal error so no internals leak to the client.
func WithError(writer http.ResponseWriter, err error) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		log.Error().Err(err).Msg("unhandled error")

		fail = &failure.Failure{
			Code:    http.StatusInternalServerError,
			Reason:  failure.ReasonInternal,
			Message: constant.ResponseErrorInternal,
		}
	}

	response(writer, fail.Code, Error{Error: fail})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithError(writer, failure.TooManyRequests(constant.ResponseErrorRequestLimitExceeded))
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithError(writer, failure.Unavailable(constant.ResponseErrorPrepareShutdown))
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter, details map[string]string) {
	WithError(writer, &failure.Failure{
		Code:    http.StatusServiceUnavailable,
		Reason:  failure.ReasonUnavailable,
		Message: constant.ResponseErrorUnhealthy,
		Details: details,
	})
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
