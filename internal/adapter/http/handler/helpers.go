package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Validation failures
// carry their violations; unexpected errors are logged and not echoed.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)

	resp := dto.ErrorResponse{Error: message, Message: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Violations = dto.ViolationsFromDomain(verr.Violations)
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		resp.Message = ""
	}

	writeJSON(w, status, resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var verr *domain.ValidationError
	var perr *domain.PostingFailedError

	switch {
	case errors.As(err, &perr):
		return http.StatusServiceUnavailable
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrInactiveUser):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrChartNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrJournalEntryNotFound),
		errors.Is(err, domain.ErrLineItemNotFound),
		errors.Is(err, domain.ErrExchangeRateNotFound),
		errors.Is(err, domain.ErrBalanceNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrChartNotActive),
		errors.Is(err, domain.ErrDuplicateChartCode),
		errors.Is(err, domain.ErrDuplicateAccountNumber),
		errors.Is(err, domain.ErrDuplicateDocumentNumber),
		errors.Is(err, domain.ErrDuplicateExchangeRate),
		errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict

	case errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrInsufficientLineItems),
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrMissingOrImpreciseExchangeRate),
		errors.Is(err, domain.ErrPeriodClosed):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidLineItem),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, domain.ErrInvalidFiscalPeriod),
		errors.Is(err, domain.ErrInvalidEnum),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooWeak),
		errors.Is(err, domain.ErrPrecisionLoss),
		errors.Is(err, domain.ErrDivisionByZero),
		errors.Is(err, domain.ErrInvalidAllocation):
		return http.StatusBadRequest

	case errors.Is(err, usecase.ErrInconsistentLedger):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a request body into v and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, false)
}

// decodeOptionalJSON is decodeJSON for bodies that may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if optional && errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}

	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", describeValidation(err))
		return false
	}

	return true
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}

	return strings.Join(parts, "; ")
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parsePeriodQuery reads the required year and period query parameters.
func parsePeriodQuery(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year is required", domain.ErrInvalidFiscalPeriod)
	}

	period, err := strconv.Atoi(r.URL.Query().Get("period"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: period is required", domain.ErrInvalidFiscalPeriod)
	}

	if err := domain.ValidateFiscalPeriod(year, period); err != nil {
		return 0, 0, err
	}

	return year, period, nil
}

// parseVersionQuery reads an optional expected_version parameter.
func parseVersionQuery(r *http.Request) (*domain.Version, error) {
	raw := r.URL.Query().Get("expected_version")
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("invalid expected_version %q", raw)
	}

	return dto.ExpectedVersion(&n), nil
}
