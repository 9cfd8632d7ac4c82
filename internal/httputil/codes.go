package httputil

// Machine-readable error codes returned alongside human-readable messages.
// Clients switch on these instead of parsing message text.
const (
	CodeInvalidRequestBody      = "INVALID_REQUEST_BODY"
	CodeEmailRequired           = "EMAIL_REQUIRED"
	CodeInvalidEmailFormat      = "INVALID_EMAIL_FORMAT"
	CodePasswordRequired        = "PASSWORD_REQUIRED"
	CodePasswordTooShort        = "PASSWORD_TOO_SHORT"
	CodeCurrentPasswordRequired = "CURRENT_PASSWORD_REQUIRED"
	CodeEmailAlreadyExists      = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeMissingAuth             = "MISSING_AUTH"
	CodeInvalidAuthHeader       = "INVALID_AUTH_HEADER"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID      = "INVALID_TOKEN_USER_ID"
	CodeNotFound                = "NOT_FOUND"
	CodeTooManyRequests         = "TOO_MANY_REQUESTS"
	CodeInternalError           = "INTERNAL_ERROR"
)
