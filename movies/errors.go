package movies

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/moviecat/moviecat/tmdb"
)

// Kind is a member of the catalog failure taxonomy
type Kind int

const (
	// KindUnknown covers every failure that is not classified otherwise
	KindUnknown Kind = iota
	// KindOffline indicates the network itself is unavailable
	KindOffline
	// KindHTTP indicates the API answered with a non-success status
	KindHTTP
	// KindDecoding indicates the response did not match the expected schema
	KindDecoding
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindOffline:
		return "offline"
	case KindHTTP:
		return "http"
	case KindDecoding:
		return "decoding"
	default:
		return "unknown"
	}
}

// Error is a classified catalog failure. Code is set for KindHTTP only.
type Error struct {
	Kind  Kind
	Code  int
	Cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("catalog http error %d", e.Code)
	case KindUnknown:
		if e.Cause != nil {
			return fmt.Sprintf("catalog error: %v", e.Cause)
		}
	}
	return "catalog " + e.Kind.String() + " error"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classify maps any raw failure to an *Error. Precedence is connectivity
// failure, then HTTP status, then decoding, then unknown. An *Error is
// returned unchanged and nil yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var transportErr *tmdb.TransportError
	if errors.As(err, &transportErr) && isConnectivity(transportErr.Err) {
		return &Error{Kind: KindOffline, Cause: err}
	}

	var statusErr *tmdb.StatusError
	if errors.As(err, &statusErr) {
		return &Error{Kind: KindHTTP, Code: statusErr.StatusCode, Cause: err}
	}

	var decodeErr *tmdb.DecodeError
	if errors.As(err, &decodeErr) {
		return &Error{Kind: KindDecoding, Cause: err}
	}

	return &Error{Kind: KindUnknown, Cause: err}
}

// isConnectivity reports whether err means the network path is down rather
// than the server misbehaving
func isConnectivity(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsTimeout
	}

	return errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.ENETDOWN) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
