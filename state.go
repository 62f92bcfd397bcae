// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"context"

	"github.com/qmuntal/stateless"
)

//go:generate go run -tags=tools golang.org/x/tools/cmd/stringer -type=ConnectionState -linecomment

// ConnectionState is the lifecycle state of a Conn.
// States only ever move forward.
type ConnectionState uint8

// A list of possible connection states.
const (
	Disconnected      ConnectionState = iota // disconnected
	StreamNegotiating                        // stream-negotiating
	Authenticating                           // authenticating
	Binding                                  // binding
	Established                              // established
	Closing                                  // closing
	Closed                                   // closed
)

type trigger string

const (
	triggerOpen          trigger = "open"
	triggerFeatures      trigger = "features"
	triggerAuthenticated trigger = "authenticated"
	triggerBound         trigger = "bound"
	triggerClose         trigger = "close"
	triggerClosed        trigger = "closed"
)

// machine wraps the state machine that tracks a connection's lifecycle.
type machine struct {
	sm *stateless.StateMachine
}

func newMachine() *machine {
	sm := stateless.NewStateMachine(Disconnected)

	sm.Configure(Disconnected).
		Permit(triggerOpen, StreamNegotiating).
		Permit(triggerClose, Closing)

	sm.Configure(StreamNegotiating).
		Permit(triggerFeatures, Authenticating).
		Permit(triggerClose, Closing)

	sm.Configure(Authenticating).
		Permit(triggerAuthenticated, Binding).
		Permit(triggerClose, Closing)

	sm.Configure(Binding).
		Permit(triggerBound, Established).
		Permit(triggerClose, Closing)

	sm.Configure(Established).
		Permit(triggerClose, Closing)

	sm.Configure(Closing).
		Permit(triggerClosed, Closed)

	sm.Configure(Closed)

	return &machine{sm: sm}
}

// fire moves the machine along t.
// Triggers that are not permitted in the current state are ignored so that
// closing a connection that never finished its handshake is not an error.
func (m *machine) fire(t trigger) error {
	ctx := context.Background()
	ok, err := m.sm.CanFireCtx(ctx, t)
	if err != nil || !ok {
		return err
	}
	return m.sm.FireCtx(ctx, t)
}

func (m *machine) state() ConnectionState {
	s, err := m.sm.State(context.Background())
	if err != nil {
		return Disconnected
	}
	return s.(ConnectionState)
}
