package service

import "errors"

var (
	// ErrStorage means the history store append or query failed; the request
	// is reported as a transient failure and nothing else is attempted.
	ErrStorage = errors.New("history store unavailable")

	// ErrVision means the vision API call itself failed (transport or
	// non-200), as opposed to an answer that failed to parse.
	ErrVision = errors.New("vision API request failed")

	// ErrInvalidCredentials is returned when a gateway presents a wrong
	// client id or secret.
	ErrInvalidCredentials = errors.New("invalid client credentials")

	// ErrInvalidToken is returned for malformed or expired gateway tokens.
	ErrInvalidToken = errors.New("invalid token")
)
