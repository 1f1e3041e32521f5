// Package i18n provides internationalization support for the pallet analysis service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidCrosslog indicates a malformed crosslog load file.
	ErrKeyInvalidCrosslog = "error.invalid_crosslog"
	// ErrKeyLoadNotFound indicates an unknown or expired load session.
	ErrKeyLoadNotFound = "error.load_not_found"
	// ErrKeyInvalidPalletIndex indicates a pallet index out of range.
	ErrKeyInvalidPalletIndex = "error.invalid_pallet_index"
	// ErrKeyValidationBoxes indicates invalid box list validation.
	ErrKeyValidationBoxes = "error.validation.boxes"
	// ErrKeyInvalidSafetyLimit indicates an out-of-range safety limit.
	ErrKeyInvalidSafetyLimit = "error.invalid_safety_limit"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
)

// Success message translation keys.
const (
	// SuccessKeyLoadParsed indicates a successfully parsed load file.
	SuccessKeyLoadParsed = "success.load_parsed"
	// SuccessKeyAnalysisCompleted indicates a successful analysis run.
	SuccessKeyAnalysisCompleted = "success.analysis_completed"
)
