package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInsufficientData = errors.New("insufficient consumption history")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMissingForecast  = errors.New("demand forecast unavailable")
	ErrInvalidItem      = errors.New("invalid inventory item")
)

// Error kinds reported to callers in batch error lists and API responses
const (
	KindNotFound         = "not_found"
	KindInsufficientData = "insufficient_data"
	KindInvalidParameter = "invalid_parameter"
	KindMissingForecast  = "missing_forecast"
	KindInvalidItem      = "invalid_item"
	KindInternal         = "internal"
)

// ErrorKind maps err onto a stable kind label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, ErrInvalidParameter):
		return KindInvalidParameter
	case errors.Is(err, ErrMissingForecast):
		return KindMissingForecast
	case errors.Is(err, ErrInvalidItem):
		return KindInvalidItem
	default:
		return KindInternal
	}
}

// IsRecoverable reports whether a per-item error can be skipped at the batch boundary.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrMissingForecast) ||
		errors.Is(err, ErrInvalidItem)
}
