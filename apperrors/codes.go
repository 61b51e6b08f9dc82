package apperrors

// Error codes - organized by domain

// Authentication errors (AUTH_*)
const (
	ErrCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	ErrCodeTokenInvalid       = "AUTH_TOKEN_INVALID"
)

// Authorization errors (AUTHZ_*)
const (
	ErrCodeForbidden              = "AUTHZ_FORBIDDEN"
	ErrCodeInsufficientPermission = "AUTHZ_INSUFFICIENT_PERMISSION"
)

// Validation errors (VALIDATION_*)
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeMissingField       = "VALIDATION_MISSING_FIELD"
	ErrCodeInvalidInput       = "VALIDATION_INVALID_INPUT"
	ErrCodeDuplicateReference = "VALIDATION_DUPLICATE_REFERENCE"
	ErrCodeInvalidTransition  = "VALIDATION_INVALID_TRANSITION"
	ErrCodeInvalidCursor      = "VALIDATION_INVALID_CURSOR"
)

// Resource errors (RESOURCE_*)
const (
	ErrCodeCuratedPrayerNotFound = "RESOURCE_CURATED_PRAYER_NOT_FOUND"
	ErrCodeUserNotFound          = "RESOURCE_USER_NOT_FOUND"
	ErrCodeResourceExists        = "RESOURCE_ALREADY_EXISTS"
)

// Concurrency errors (CONFLICT_*)
const (
	ErrCodeStaleWrite = "CONFLICT_STALE_WRITE"
)

// Internal errors (INTERNAL_*)
const (
	ErrCodeDatabaseError   = "INTERNAL_DATABASE_ERROR"
	ErrCodeUnexpectedError = "INTERNAL_UNEXPECTED_ERROR"
)
