// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package history records the per-contact conversations of a session.
package history // import "mellium.im/imclient/history"

import (
	"context"
	"sync"
	"time"

	"mellium.im/imclient/jid"
)

// Message is one recorded chat message.
// Contact is the bare JID of the other party and Resource the resource the
// message was sent to or received from, if known.
type Message struct {
	ID       string
	Contact  jid.JID
	Resource string
	Body     string
	Incoming bool
	Time     time.Time
}

// Store is a conversation store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records msg at the end of the conversation with msg.Contact.
	Append(ctx context.Context, msg Message) error

	// Messages returns the conversation with the bare form of contact, oldest
	// message first.
	Messages(ctx context.Context, contact jid.JID) ([]Message, error)

	// Len returns the number of messages exchanged with the bare form of
	// contact.
	Len(ctx context.Context, contact jid.JID) (int, error)
}

// Memory is an in-memory Store.
// The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	convs map[jid.JID][]Message
}

// Append satisfies Store.
func (m *Memory) Append(_ context.Context, msg Message) error {
	msg.Contact = msg.Contact.Bare()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.convs == nil {
		m.convs = make(map[jid.JID][]Message)
	}
	m.convs[msg.Contact] = append(m.convs[msg.Contact], msg)
	return nil
}

// Messages satisfies Store.
func (m *Memory) Messages(_ context.Context, contact jid.JID) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv := m.convs[contact.Bare()]
	out := make([]Message, len(conv))
	copy(out, conv)
	return out, nil
}

// Len satisfies Store.
func (m *Memory) Len(_ context.Context, contact jid.JID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.convs[contact.Bare()]), nil
}
