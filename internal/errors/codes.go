package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized          = "AUTH_UNAUTHORIZED"        // bearer token missing
	AuthInvalidCredentials    = "AUTH_INVALID_CREDENTIALS" // bad username/password
	AuthTokenExpired          = "AUTH_TOKEN_EXPIRED"       // session token expired
	AuthTokenInvalid          = "AUTH_TOKEN_INVALID"       // bad signature or malformed
	AuthTokenRevoked          = "AUTH_TOKEN_REVOKED"       // logged out
	AuthEmailAlreadyExists    = "AUTH_EMAIL_EXISTS"        // email taken
	AuthUsernameAlreadyExists = "AUTH_USERNAME_EXISTS"     // username taken

	// ==================== Password reset (RESET_) ====================
	ResetTokenInvalid = "RESET_TOKEN_INVALID" // unknown or used token
	ResetTokenExpired = "RESET_TOKEN_EXPIRED" // token past expiry

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed body
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field missing

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // search provider or SMTP failure
)
