package response

import (
	"encoding/json"
	"hotelops/shared/constant"
	"hotelops/shared/failure"
	"hotelops/shared/logger"
	"net/http"
)

// Envelopes. Every body is exactly one of data, error or message.
type (
	Data[T any] struct {
		Data *T `json:"data,omitempty"`
	}

	Error struct {
		Error *string      `json:"error,omitempty"`
		Code  failure.Kind `json:"code,omitempty"`
	}

	Message struct {
		Message *string `json:"message,omitempty"`
	}
)

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its status. Internal errors are logged by the
// caller and never echoed to the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = constant.ResponseErrorInternal
	}

	write(writer, code, Error{Error: &msg, Code: failure.GetKind(err)})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
