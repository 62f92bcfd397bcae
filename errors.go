// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"errors"
)

// Errors returned by the connection.
var (
	// ErrClosed is returned when sending on a connection that is closing or
	// closed.
	ErrClosed = errors.New("imclient: use of closed connection")

	// ErrNoFeatures is wrapped by a HandshakeError when the server did not send
	// a usable stream features element.
	ErrNoFeatures = errors.New("imclient: missing or malformed stream features")

	// ErrUnsupportedMechanism is wrapped by an AuthError when the server does
	// not offer the PLAIN mechanism.
	ErrUnsupportedMechanism = errors.New("imclient: server does not offer SASL PLAIN")
)

// ConnectError is returned by Dial when the server could not be reached.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return "imclient: connecting to " + e.Addr + ": " + e.Err.Error()
}

func (e *ConnectError) Unwrap() error { return e.Err }

// HandshakeError is returned when the stream could not be negotiated.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string {
	return "imclient: stream negotiation failed: " + e.Err.Error()
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// AuthError is returned when authentication fails.
// If the server rejected the credentials, Reason holds the SASL condition it
// sent and Err is a saslerr.Failure.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return "imclient: authentication failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// BindError is returned when the server refuses to bind a resource or answers
// the bind request with something unusable.
type BindError struct {
	Err error
}

func (e *BindError) Error() string {
	return "imclient: resource binding failed: " + e.Err.Error()
}

func (e *BindError) Unwrap() error { return e.Err }

// SendError is returned when a stanza could not be written.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return "imclient: send failed: " + e.Err.Error()
}

func (e *SendError) Unwrap() error { return e.Err }

// ReadError is reported to SessionListeners when the receive loop stops
// because of a transport or parse failure.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "imclient: read failed: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error { return e.Err }
