package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidCode          = errors.New("invalid code")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidCurrency      = errors.New("invalid currency code")
	ErrInvalidDocument      = errors.New("invalid document")
	ErrInvalidFiscalPeriod  = errors.New("invalid fiscal period")
	ErrInvalidEnum          = errors.New("invalid enumeration value")
	ErrInvalidParent        = errors.New("invalid parent account")
	ErrMissingActor         = errors.New("actor is required")
)

// Validation constants
const (
	MaxNameLength          = 255
	MaxCodeLength          = 32
	MaxAccountNumberLength = 20
	MaxDocumentNumber      = 40
	MaxFiscalPeriod        = 16 // 12 regular periods plus adjustment periods
	MinFiscalYear          = 1900
	MaxFiscalYear          = 9999
)

// ValidateName validates a display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateCode validates a chart code.
func ValidateCode(code string) error {
	if code == "" || len(code) > MaxCodeLength || strings.ContainsAny(code, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	return nil
}

// ValidateAccountNumber accepts digits with optional dots or dashes as group separators.
func ValidateAccountNumber(number string) error {
	if number == "" || len(number) > MaxAccountNumberLength {
		return fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number)
	}

	for _, r := range number {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidAccountNumber, number, r)
		}
	}

	return nil
}

// ValidateDocumentNumber validates an externally supplied document number.
func ValidateDocumentNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return fmt.Errorf("%w: document number is required", ErrInvalidDocument)
	}

	if len(number) > MaxDocumentNumber {
		return fmt.Errorf("%w: document number exceeds %d characters", ErrInvalidDocument, MaxDocumentNumber)
	}

	return nil
}

// ValidateFiscalPeriod validates a fiscal year and period pair.
func ValidateFiscalPeriod(year, period int) error {
	if year < MinFiscalYear || year > MaxFiscalYear {
		return fmt.Errorf("%w: year %d", ErrInvalidFiscalPeriod, year)
	}

	if period < 1 || period > MaxFiscalPeriod {
		return fmt.Errorf("%w: period %d", ErrInvalidFiscalPeriod, period)
	}

	return nil
}
