package auth

import "errors"

var (
	// ErrMalformedToken covers structural failures: segment count, base64, JSON.
	ErrMalformedToken = errors.New("malformed token")
	// ErrSignatureMismatch means the MAC did not verify or the algorithm is not HS256.
	ErrSignatureMismatch = errors.New("token signature mismatch")
	// ErrExpiredToken means the token verified but now >= exp.
	ErrExpiredToken = errors.New("token expired")
	// ErrMissingCredential means no token was found on the request.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidIdentity is returned when asked to issue a token for bad input.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Failure reason labels, stable for logs and metrics.
const (
	ReasonMalformed         = "malformed"
	ReasonSignatureMismatch = "signature_mismatch"
	ReasonExpired           = "expired"
	ReasonMissing           = "missing"
	ReasonUnknown           = "unknown"
)

// FailureReason maps a verification error to its label.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExpiredToken):
		return ReasonExpired
	case errors.Is(err, ErrSignatureMismatch):
		return ReasonSignatureMismatch
	case errors.Is(err, ErrMalformedToken):
		return ReasonMalformed
	case errors.Is(err, ErrMissingCredential):
		return ReasonMissing
	default:
		return ReasonUnknown
	}
}
