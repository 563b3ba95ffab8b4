package main

import "fmt"

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError is a response with a non-2xx status.
type ResponseError struct {
	Op         string
	Status     string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("Failed to %s: %s", e.Op, e.Status)
}

// ParseError is a 2xx response whose body could not be decoded.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to %s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
