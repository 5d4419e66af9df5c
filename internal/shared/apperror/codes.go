package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeProcessing   = "PROCESSING"

	CodeTooManyRequests = "TOO_MANY_REQUESTS"

	// Leave validation outcomes
	CodeMissingField      = "MISSING_FIELD"
	CodeLeadTimeViolation = "LEAD_TIME_VIOLATION"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeInvalidDateRange  = "INVALID_DATE_RANGE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
