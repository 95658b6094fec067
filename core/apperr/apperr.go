// Package apperr defines the expected, caller-visible failures of the
// session tracking engine.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an expected failure.
type Kind string

const (
	KindMissingParameter    Kind = "missing_parameter"
	KindAlreadyExists       Kind = "already_exists"
	KindUserNotFound        Kind = "user_not_found"
	KindMalformedInput      Kind = "malformed_input"
	KindFutureLogin         Kind = "future_login"
	KindLogoutBeforeLogin   Kind = "logout_before_login"
	KindDuplicateSession    Kind = "duplicate_session"
	KindNoSessionsFound     Kind = "no_sessions_found"
	KindInvalidNumberFormat Kind = "invalid_number_format"
)

// Caller-visible messages. They are rendered verbatim by the request layer.
const (
	MsgMissingParameters   = "Missing parameters"
	MsgMissingUserID       = "Missing userId"
	MsgMissingDays         = "Missing days parameter"
	MsgAlreadyExists       = "User already exists"
	MsgUserNotFound        = "User not found"
	MsgInvalidDataPrefix   = "Invalid data: "
	MsgFutureLogin         = "Login time must be before the future"
	MsgLogoutBeforeLogin   = "Login time must before logout time"
	MsgDuplicateSession    = "Session already recorded with these dates"
	MsgNoSessionsFound     = "No sessions found for user"
	MsgInvalidNumberFormat = "Invalid number format for days"
)

// Sentinels for errors.Is. Matching is by Kind, so any *Error of the same
// kind matches regardless of its message or cause.
var (
	ErrMissingParameter    = &Error{Kind: KindMissingParameter, Message: MsgMissingParameters}
	ErrAlreadyExists       = &Error{Kind: KindAlreadyExists, Message: MsgAlreadyExists}
	ErrUserNotFound        = &Error{Kind: KindUserNotFound, Message: MsgUserNotFound}
	ErrMalformedInput      = &Error{Kind: KindMalformedInput, Message: MsgInvalidDataPrefix}
	ErrFutureLogin         = &Error{Kind: KindFutureLogin, Message: MsgFutureLogin}
	ErrLogoutBeforeLogin   = &Error{Kind: KindLogoutBeforeLogin, Message: MsgLogoutBeforeLogin}
	ErrDuplicateSession    = &Error{Kind: KindDuplicateSession, Message: MsgDuplicateSession}
	ErrNoSessionsFound     = &Error{Kind: KindNoSessionsFound, Message: MsgNoSessionsFound}
	ErrInvalidNumberFormat = &Error{Kind: KindInvalidNumberFormat, Message: MsgInvalidNumberFormat}
)

// Error is an expected failure with a message suitable for the caller.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// MissingParameter reports an absent request parameter with the given message.
func MissingParameter(message string) *Error {
	return &Error{Kind: KindMissingParameter, Message: message}
}

// AlreadyExists reports a duplicate user registration.
func AlreadyExists() *Error {
	return &Error{Kind: KindAlreadyExists, Message: MsgAlreadyExists}
}

// UserNotFound reports an unregistered user ID.
func UserNotFound() *Error {
	return &Error{Kind: KindUserNotFound, Message: MsgUserNotFound}
}

// MalformedInput wraps a parse failure. The message carries the original
// parse error text after the "Invalid data: " prefix.
func MalformedInput(err error) *Error {
	return &Error{
		Kind:    KindMalformedInput,
		Message: MsgInvalidDataPrefix + err.Error(),
		err:     err,
	}
}

// FutureLogin reports a login time later than the validation instant.
func FutureLogin() *Error {
	return &Error{Kind: KindFutureLogin, Message: MsgFutureLogin}
}

// LogoutBeforeLogin reports an empty or inverted session interval.
func LogoutBeforeLogin() *Error {
	return &Error{Kind: KindLogoutBeforeLogin, Message: MsgLogoutBeforeLogin}
}

// DuplicateSession reports a session whose bounds were already recorded.
func DuplicateSession() *Error {
	return &Error{Kind: KindDuplicateSession, Message: MsgDuplicateSession}
}

// NoSessionsFound reports a user without any recorded session.
func NoSessionsFound() *Error {
	return &Error{Kind: KindNoSessionsFound, Message: MsgNoSessionsFound}
}

// InvalidNumberFormat reports an unparseable or negative day count.
func InvalidNumberFormat(err error) *Error {
	return &Error{Kind: KindInvalidNumberFormat, Message: MsgInvalidNumberFormat, err: err}
}

// InvalidData renders err the way the request layer reports rejected
// analytics input: "Invalid data: <detail>". Malformed input already
// carries the prefix.
func InvalidData(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindMalformedInput {
		return e.Message
	}
	return fmt.Sprintf("%s%s", MsgInvalidDataPrefix, err.Error())
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsExpected reports whether err is one of the expected failure kinds.
func IsExpected(err error) bool {
	return KindOf(err) != ""
}
