package model

import "net/http"

// RegistrationError is a rejection with a machine-readable code and the
// HTTP status class it maps to. The message is safe to show to end users;
// the code is the stable contract the calling page localizes on.
type RegistrationError struct {
	Code    string
	Status  int
	Message string
}

func (e *RegistrationError) Error() string { return e.Message }

// BadRequest builds a 400 client-input error.
func BadRequest(code, msg string) *RegistrationError {
	return &RegistrationError{Code: code, Status: http.StatusBadRequest, Message: msg}
}

// Forbidden builds a 403 policy rejection.
func Forbidden(code, msg string) *RegistrationError {
	return &RegistrationError{Code: code, Status: http.StatusForbidden, Message: msg}
}

// TooMany builds a 429 rate-limit rejection.
func TooMany(code, msg string) *RegistrationError {
	return &RegistrationError{Code: code, Status: http.StatusTooManyRequests, Message: msg}
}

// ServerError builds a 500 infrastructure failure. The message stays
// generic; the code carries the detail operators need.
func ServerError(code, msg string) *RegistrationError {
	return &RegistrationError{Code: code, Status: http.StatusInternalServerError, Message: msg}
}

// Rejection codes for the public registration pipeline, in pipeline order.
var (
	ErrInvalidJSON      = BadRequest("invalid_json", "invalid JSON body")
	ErrSlugRequired     = BadRequest("slug_required", "slug required")
	ErrFullNameRequired = BadRequest("full_name_required", "full_name required")
	ErrEmailRequired    = BadRequest("email_required", "email required")

	ErrTooManyAttempts = TooMany("too_many_attempts", "too many attempts, try again later")

	ErrEventNotFound = BadRequest("event_not_found", "event not found")
	ErrNotPublished  = Forbidden("event_not_published", "event not published")
	ErrClosed        = Forbidden("registrations_closed", "registrations closed")
	ErrNotOpenYet    = Forbidden("registrations_not_open_yet", "registrations not open yet")
	ErrClosedPeriod  = Forbidden("registrations_closed_period", "registration period is over")
	ErrQuotaReached  = Forbidden("user_quota_reached", "quota reached for this email")
	ErrSoldOut       = Forbidden("sold_out", "sold out")
	ErrAlreadyExists = Forbidden("already_registered", "already registered for this event")

	ErrEnvMissing   = ServerError("env_missing", "service not configured")
	ErrDBCheck      = ServerError("db_check_error", "could not verify existing registrations")
	ErrDBCount      = ServerError("db_count_error", "could not count registrations")
	ErrCreateFailed = ServerError("participant_create_failed", "could not create participant")
	ErrQRUpload     = ServerError("qr_upload_failed", "could not store ticket")
	ErrQRSign       = ServerError("qr_sign_failed", "could not sign ticket URL")
)
