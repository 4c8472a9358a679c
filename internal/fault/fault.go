// Package fault contains the error taxonomy shared by every part of Reel. Each
// failure surfaced to a caller carries a Kind so the transport layer can map it to
// a status without string matching.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Transient is a network or parse hiccup. Retried within a strategy,
	// and across strategies.
	Transient Kind = iota

	// InvalidURL indicates the source URL did not match any known shape. No
	// network I/O is ever attempted for these.
	InvalidURL

	// RateLimited indicates the upstream platform has signalled bot
	// suspicion. Callers should back off.
	RateLimited

	// Unavailable indicates the content is gone, private or otherwise
	// not viewable. Terminal.
	Unavailable

	// DownloadIncomplete indicates the fetch tool exited but the output
	// file could not be located.
	DownloadIncomplete

	// NotFound indicates the requested artifact does not exist (or no
	// longer exists) in the artifact store.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "TRANSIENT"
	case InvalidURL:
		return "INVALID_URL"
	case RateLimited:
		return "RATE_LIMITED"
	case Unavailable:
		return "UNAVAILABLE"
	case DownloadIncomplete:
		return "DOWNLOAD_INCOMPLETE"
	case NotFound:
		return "NOT_FOUND"
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

// Rank orders the kinds produced by upstream interaction by how much
// they tell the caller. When several failures are observed for one
// request, the highest ranked one is surfaced.
func Rank(k Kind) int {
	switch k {
	case RateLimited:
		return 3
	case Unavailable:
		return 2
	case DownloadIncomplete:
		return 1
	}

	return 0
}

// Error is a classified failure. Err is the underlying cause (if any) and is
// exposed via Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match against another *Error with the same Kind, which
// allows errors.Is(err, fault.New(fault.NotFound, "")) style checks.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}

	return false
}

// KindOf returns the Kind of the first *Error found in err's chain. Errors
// which carry no classification are considered Transient.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}

	return Transient
}

// IsKind reports whether err is classified as the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}

	return KindOf(err) == kind
}
