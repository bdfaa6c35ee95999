package errors

import "net/http"

// ErrorCode identifies a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeDatabaseError      ErrorCode = "COMMON_007"
	ErrCodeCacheError         ErrorCode = "COMMON_008"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_009"

	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Deadline-engine error codes.
//
// These map one-to-one onto the failure taxonomy of the deadline calculator:
// a missing notification date is a prompt-the-user condition, a parse failure
// carries the accepted formats, and an invalid date reaching the arithmetic
// layer is a caller bug that must surface loudly.
const (
	ErrCodeMissingAnchorDate      ErrorCode = "PLZ_001"
	ErrCodeDateParse              ErrorCode = "PLZ_002"
	ErrCodeInvalidDate            ErrorCode = "PLZ_003"
	ErrCodeUnrecognizedProcedure  ErrorCode = "PLZ_004"
	ErrCodeDeadlineNotFound       ErrorCode = "PLZ_005"
	ErrCodeDeadlineComputeFailed  ErrorCode = "PLZ_006"
)

// Calendar error codes.
const (
	ErrCodeCalendarConfig      ErrorCode = "CAL_001"
	ErrCodeHolidaySourceFailed ErrorCode = "CAL_002"
	ErrCodeYearOutOfRange      ErrorCode = "CAL_003"
)

// HTTPStatus maps an ErrorCode to the HTTP status the API layer should emit.
// Codes without an explicit mapping default to 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case ErrCodeBadRequest, ErrCodeValidation,
		ErrCodeMissingAnchorDate, ErrCodeDateParse, ErrCodeInvalidDate,
		ErrCodeYearOutOfRange:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeDeadlineNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
