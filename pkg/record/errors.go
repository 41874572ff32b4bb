package record

import (
	"fmt"
)

// Cause is one entry in a causal error chain.
type Cause struct {
	// Domain classifies the error origin. Errors implementing
	// DomainError choose their own domain; otherwise the dynamic Go
	// type name is used.
	Domain string

	// Code is a numeric error code, 0 unless the error implements
	// CodeError.
	Code int

	// Message is the error text.
	Message string
}

// ErrorChain is the ordered causal chain of an error, outermost first.
type ErrorChain []Cause

// DomainError lets an error type report a stable domain string
// instead of its Go type name.
type DomainError interface {
	error
	ErrorDomain() string
}

// CodeError lets an error type report a numeric code.
type CodeError interface {
	error
	ErrorCode() int
}

// Unwind builds the causal chain for err by unwrapping it outward-in.
// Both single-cause (Unwrap() error) and joined (Unwrap() []error)
// errors are followed. Returns nil for a nil error.
func Unwind(err error) ErrorChain {
	if err == nil {
		return nil
	}

	var chain ErrorChain
	unwind(err, &chain)
	return chain
}

func unwind(err error, chain *ErrorChain) {
	for err != nil {
		*chain = append(*chain, causeOf(err))

		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Unwrap() []error }:
			for _, joined := range x.Unwrap() {
				unwind(joined, chain)
			}
			return
		default:
			return
		}
	}
}

func causeOf(err error) Cause {
	c := Cause{
		Domain:  fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	if de, ok := err.(DomainError); ok {
		c.Domain = de.ErrorDomain()
	}
	if ce, ok := err.(CodeError); ok {
		c.Code = ce.ErrorCode()
	}
	return c
}
