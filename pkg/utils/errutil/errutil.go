package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

// ErrorResponse is the JSON body of every failed API request
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatusCode classifies err into an HTTP status code
func StatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Handle logs the error with a message and reports it to Sentry when configured.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logError(ctx, msg, err)
	capture(ctx, err)
}

// HandleHTTP logs the error and writes a {"detail": ...} response. Server side
// failures are reported to Sentry when configured.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	statusCode := StatusCode(err)
	logger := logging.From(ctx)

	if statusCode >= http.StatusInternalServerError {
		logError(ctx, "HTTP error", err, slog.Int("status", statusCode))
		capture(ctx, err)
	} else {
		logger.Info("request rejected",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	WriteJSON(ctx, w, statusCode, ErrorResponse{Detail: err.Error()})
}

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to encode response", logging.ErrAttr(err))
	}
}

func logError(ctx context.Context, msg string, err error, attrs ...any) {
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		attrs = append(attrs, "error", err.Error())
	}

	logger.Error(msg, attrs...)
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	var ge *goerr.Error
	if errors.As(err, &ge) {
		values := sentry.Context{}
		for k, v := range ge.Values() {
			values[k] = v
		}
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetContext("values", values)
		})
	}
	hub.CaptureException(err)
}
