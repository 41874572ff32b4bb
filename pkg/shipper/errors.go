package shipper

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// Delivery errors. Match with errors.Is against the error reported by
// the flush callback. None of these are fatal: the buffer keeps its
// undelivered records and a later flush may succeed.
var (
	// ErrConnectionFailed indicates the collector could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrCertificateRejected indicates the collector's TLS certificate
	// failed validation. Terminal for the attempt, not for the shipper.
	ErrCertificateRejected = errors.New("certificate rejected")

	// ErrWriteFailed indicates the connection broke mid-stream.
	ErrWriteFailed = errors.New("write failed")

	// ErrTimeout indicates the attempt exceeded the configured timeout.
	ErrTimeout = errors.New("timeout")

	// ErrCancelled indicates the attempt was aborted by Cancel or Close.
	ErrCancelled = errors.New("cancelled")

	// ErrClosed is reported for operations on a closed shipper.
	ErrClosed = errors.New("shipper closed")
)

// DeliveryError describes a failed flush attempt. It wraps both the
// taxonomy sentinel (Kind) and the underlying cause, so errors.Is
// works against either.
type DeliveryError struct {
	// Op is the phase that failed: "connect" or "write".
	Op string

	// Kind is the taxonomy sentinel classifying the failure.
	Kind error

	// Remaining is the number of records still buffered.
	Remaining int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery %s: %v (%d records retained)", e.Op, e.Err, e.Remaining)
}

// Unwrap exposes both the sentinel and the cause.
func (e *DeliveryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// classify maps an attempt error onto the delivery taxonomy.
func classify(op string, err error, cancelled bool) error {
	switch {
	case cancelled,
		errors.Is(err, context.Canceled),
		errors.Is(err, net.ErrClosed):
		return ErrCancelled

	case isCertificateError(err):
		return ErrCertificateRejected

	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return ErrTimeout

	case op == "connect":
		return ErrConnectionFailed

	default:
		return ErrWriteFailed
	}
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func isCertificateError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}
