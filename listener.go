// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"sync"

	"mellium.im/imclient/jid"
	"mellium.im/imclient/roster"
)

// ContactListener is notified when the contact directory changes because of a
// roster push or an unsubscribe.
type ContactListener interface {
	ContactAdded(item roster.Item)
	ContactRemoved(item roster.Item)
}

// SubscriptionListener is notified when someone asks to subscribe to the
// user's presence.
// The request is reported even if the requester is not a known contact.
type SubscriptionListener interface {
	SubscriptionRequested(from jid.JID)
}

// MessageListener is notified of chat messages from known contacts.
type MessageListener interface {
	MessageReceived(contact jid.JID, resource, body string)
}

// PresenceListener is notified when a known contact's resource changes
// availability.
type PresenceListener interface {
	PresenceUpdated(update roster.PresenceUpdate)
}

// SessionListener is notified when the receive loop fails and when the
// connection has been closed.
// SessionClosed is called exactly once per connection.
type SessionListener interface {
	SessionError(err error)
	SessionClosed()
}

// ContactFuncs is a ContactListener built from functions.
// Nil functions are skipped.
type ContactFuncs struct {
	Added   func(roster.Item)
	Removed func(roster.Item)
}

// ContactAdded satisfies ContactListener.
func (f ContactFuncs) ContactAdded(item roster.Item) {
	if f.Added != nil {
		f.Added(item)
	}
}

// ContactRemoved satisfies ContactListener.
func (f ContactFuncs) ContactRemoved(item roster.Item) {
	if f.Removed != nil {
		f.Removed(item)
	}
}

// SubscriptionFunc is a SubscriptionListener.
type SubscriptionFunc func(from jid.JID)

// SubscriptionRequested calls f(from).
func (f SubscriptionFunc) SubscriptionRequested(from jid.JID) { f(from) }

// MessageFunc is a MessageListener.
type MessageFunc func(contact jid.JID, resource, body string)

// MessageReceived calls f(contact, resource, body).
func (f MessageFunc) MessageReceived(contact jid.JID, resource, body string) {
	f(contact, resource, body)
}

// PresenceFunc is a PresenceListener.
type PresenceFunc func(update roster.PresenceUpdate)

// PresenceUpdated calls f(update).
func (f PresenceFunc) PresenceUpdated(update roster.PresenceUpdate) { f(update) }

// SessionFuncs is a SessionListener built from functions.
// Nil functions are skipped.
type SessionFuncs struct {
	Error  func(error)
	Closed func()
}

// SessionError satisfies SessionListener.
func (f SessionFuncs) SessionError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// SessionClosed satisfies SessionListener.
func (f SessionFuncs) SessionClosed() {
	if f.Closed != nil {
		f.Closed()
	}
}

type registration struct {
	id uint64
	l  interface{}
}

// listeners is a copy-on-write set of registrations.
// A snapshot is never modified after it has been published, so events can
// be delivered without holding the lock and listeners may register or
// unregister from inside a callback.
type listeners struct {
	mu   sync.Mutex
	next uint64
	regs []registration
}

func isListener(l interface{}) bool {
	switch l.(type) {
	case ContactListener, SubscriptionListener, MessageListener, PresenceListener, SessionListener:
		return true
	}
	return false
}

func (ls *listeners) add(l interface{}) (remove func()) {
	ls.mu.Lock()
	ls.next++
	id := ls.next
	regs := make([]registration, len(ls.regs), len(ls.regs)+1)
	copy(regs, ls.regs)
	ls.regs = append(regs, registration{id: id, l: l})
	ls.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			ls.mu.Lock()
			defer ls.mu.Unlock()
			regs := make([]registration, 0, len(ls.regs))
			for _, r := range ls.regs {
				if r.id != id {
					regs = append(regs, r)
				}
			}
			ls.regs = regs
		})
	}
}

func (ls *listeners) snapshot() []registration {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.regs
}

// Listen registers l for the events of every listener interface it
// implements and returns a function that unregisters it.
// Listen panics if l implements none of them.
//
// Listeners are called from the connection's receive loop, one at a time and
// in registration order, and must not block.
func (c *Conn) Listen(l interface{}) (remove func()) {
	if !isListener(l) {
		panic("imclient: listener implements no listener interface")
	}
	return c.listeners.add(l)
}

func (c *Conn) contactAdded(item roster.Item) {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(ContactListener); ok {
			l.ContactAdded(item)
		}
	}
}

func (c *Conn) contactRemoved(item roster.Item) {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(ContactListener); ok {
			l.ContactRemoved(item)
		}
	}
}

func (c *Conn) subscriptionRequested(from jid.JID) {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(SubscriptionListener); ok {
			l.SubscriptionRequested(from)
		}
	}
}

func (c *Conn) messageReceived(contact jid.JID, resource, body string) {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(MessageListener); ok {
			l.MessageReceived(contact, resource, body)
		}
	}
}

func (c *Conn) presenceUpdated(update roster.PresenceUpdate) {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(PresenceListener); ok {
			l.PresenceUpdated(update)
		}
	}
}

func (c *Conn) sessionError(err error) {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(SessionListener); ok {
			l.SessionError(err)
		}
	}
}

func (c *Conn) sessionClosed() {
	for _, r := range c.listeners.snapshot() {
		if l, ok := r.l.(SessionListener); ok {
			l.SessionClosed()
		}
	}
}
