package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"      // 400
	KindAuth           ErrKind = "auth"            // 401
	KindUnknownSubject ErrKind = "unknown_subject" // 402
	KindForbidden      ErrKind = "forbidden"       // 403
	KindNotFound       ErrKind = "not_found"       // 404
	KindConflict       ErrKind = "conflict"        // 409
	KindRateLimited    ErrKind = "rate_limited"    // 429
	KindInfrastructure ErrKind = "infrastructure"  // 503
	KindInternal       ErrKind = "internal"        // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrPasswordMismatch() *Error {
	return New(KindValidation, "password_mismatch", "password and confirmation do not match")
}

// ----------------------
// Auth errors (401)
// ----------------------

func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid mail or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no access token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

// ----------------------
// Unknown subject (402)
// ----------------------

// ErrUnknownSubject is returned by the session guard when a validly signed
// access token names a subject that no longer exists. 402 lets clients
// distinguish a deleted account from a bad or missing token.
func ErrUnknownSubject() *Error {
	return New(KindUnknownSubject, "subject_unknown", "unknown subject")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrSubjectUnverified() *Error {
	return New(KindForbidden, "subject_unverified", "mail address not verified")
}

// Refresh failures are forbidden rather than auth: the /refresh endpoint
// answers 403 so clients know the session is gone and a new login is needed.
func ErrRefreshTokenInvalid() *Error {
	return New(KindForbidden, "refresh_token_invalid", "invalid refresh token")
}

func ErrRefreshTokenExpired() *Error {
	return New(KindForbidden, "refresh_token_expired", "refresh token is expired")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrDuplicateMail() *Error {
	return New(KindConflict, "duplicate_mail", "mail already registered")
}

// ErrAlreadyVerifiedOrUnknown is terminal and non-retryable: the confirmation
// link was consumed, or it points at a subject that no longer exists.
func ErrAlreadyVerifiedOrUnknown() *Error {
	return New(KindConflict, "already_verified_or_unknown", "account unknown or already verified")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrStoreUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "store_unavailable", "durable store unavailable", cause)
}

// ErrCacheUnavailable never reaches a client: callers swallow it and degrade
// to the durable store.
func ErrCacheUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "cache_unavailable", "cache unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
