package model

import "errors"

// Kind classifies an Error for the request boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindPolicyViolation
	KindValidation
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPolicyViolation:
		return "policy_violation"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a recoverable application error. Message is safe to show to users.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Social graph errors.
var (
	ErrSelfFollow       = newError(KindPolicyViolation, "SELF_FOLLOW_REJECTED", "No use following yourself.")
	ErrSelfUnfollow     = newError(KindPolicyViolation, "SELF_UNFOLLOW_REJECTED", "No use unfollowing yourself.")
	ErrAlreadyFollowing = newError(KindConflict, "ALREADY_FOLLOWING", "already following")
	ErrNotFollowing     = newError(KindNotFound, "NOT_FOLLOWING", "not following")
	ErrTargetNotFound   = newError(KindNotFound, "TARGET_NOT_FOUND", "That user does not exist")
)

// Identity errors.
var (
	ErrUserNotFound      = newError(KindNotFound, "USER_NOT_FOUND", "That user does not exist")
	ErrDuplicateIdentity = newError(KindConflict, "DUPLICATE_IDENTITY", "That username and/or email already exists.")
	ErrAuthFailure       = newError(KindUnauthorized, "AUTH_FAILURE", "Invalid username or password.")
	ErrInvalidName       = newError(KindValidation, "INVALID_NAME", "Name must be between 1 and 25 characters.")
	ErrInvalidEmail      = newError(KindValidation, "INVALID_EMAIL", "You have to enter a valid email address.")
	ErrInvalidPassword   = newError(KindValidation, "INVALID_PASSWORD", "Password must be between 6 and 40 characters.")
	ErrPasswordMismatch  = newError(KindValidation, "PASSWORD_MISMATCH", "Passwords must match.")
)

// Tweet errors.
var (
	ErrTweetNotFound = newError(KindNotFound, "TWEET_NOT_FOUND", "That tweet does not exist.")
	ErrNotOwner      = newError(KindPolicyViolation, "NOT_OWNER", "You can only delete tweets that belong to you.")
	ErrEmptyTweet    = newError(KindValidation, "EMPTY_TWEET", "This field is required.")
	ErrTweetTooLong  = newError(KindValidation, "TWEET_TOO_LONG", "Tweets can be at most 140 characters.")
)

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if there
// is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
