package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"pagevault/pkg/assembler"
	"pagevault/pkg/importer"
	"pagevault/pkg/log"
	"pagevault/pkg/models"
	"pagevault/pkg/records"
)

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	var validationErr models.ValidationError
	var resolutionErr assembler.AssetResolutionError
	var duplicate importer.DuplicateSignal

	switch {
	case errors.As(err, &validationErr), errors.Is(err, records.ErrInvalidChecksum):
		return http.StatusBadRequest
	case errors.Is(err, records.ErrSourceNotFound),
		errors.Is(err, records.ErrProjectNotFound),
		errors.Is(err, records.ErrOutputNotFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate),
		errors.Is(err, records.ErrDuplicateChecksum),
		errors.Is(err, records.ErrSourceExists):
		return http.StatusConflict
	case errors.As(err, &resolutionErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Internal failures are logged and their
// detail is not sent to the client.
func respondError(ctx echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("method", ctx.Request().Method).Str("path", ctx.Request().URL.Path).Msg("Request failed")
		return ctx.JSON(status, map[string]string{"error": "Internal server error"})
	}

	log.Warn().Err(err).Int("status", status).Str("path", ctx.Request().URL.Path).Msg("Request rejected")
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

var errEmptyBody = models.ValidationError{Field: "body", Reason: "empty"}

// bindBody binds the JSON request body into v. Binding failures come back
// as ValidationError so they map to 400 with a readable message.
func bindBody(ctx echo.Context, v any) error {
	err := ctx.Bind(v)
	if err == nil {
		return nil
	}

	var validationErr models.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return models.ValidationError{Field: "body", Reason: fmt.Sprint(httpErr.Message)}
	}
	return models.ValidationError{Field: "body", Reason: err.Error()}
}
