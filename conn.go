// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"sync"
	"time"

	"mellium.im/imclient/dial"
	"mellium.im/imclient/history"
	"mellium.im/imclient/internal/attr"
	"mellium.im/imclient/internal/stream"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/roster"
	"mellium.im/imclient/stanza"
)

// Conn is an established client session.
// All methods are safe for concurrent use.
type Conn struct {
	cfg   Config
	t     *stream.Transport
	ids   *attr.Counter
	state *machine
	local jid.JID

	// wmu serializes writes to the transport.
	wmu sync.Mutex

	closeMu   sync.Mutex
	isClosing bool
	recvDone  chan struct{}
	done      chan struct{}

	listeners listeners

	statusMu   sync.Mutex
	status     roster.Status
	statusText string
}

// Message is an outgoing chat message.
// If From is the zero JID the connection's own address is used.
type Message struct {
	From jid.JID
	To   jid.JID
	Body string
}

// Dial connects to the server responsible for addr, authenticates as addr with
// password and binds a resource.
// The server is located through SRV records unless cfg.Server is set.
func Dial(ctx context.Context, addr jid.JID, password string, cfg Config) (*Conn, error) {
	d := dial.Dialer{Server: cfg.Server}
	conn, err := d.Dial(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr.Domainpart(), Err: err}
	}
	return NewConn(ctx, conn, addr, password, cfg)
}

// NewConn performs the handshake over an existing connection and starts the
// receive loop.
// If the context has a deadline it bounds the handshake, and canceling the
// context aborts it if rwc supports deadlines.
// On failure rwc is closed.
func NewConn(ctx context.Context, rwc io.ReadWriteCloser, addr jid.JID, password string, cfg Config) (*Conn, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		rwc.Close()
		return nil, err
	}

	c := &Conn{
		cfg:      cfg,
		t:        stream.New(rwc, cfg.TeeIn, cfg.TeeOut),
		ids:      attr.NewCounter(cfg.IDPrefix),
		state:    newMachine(),
		status:   roster.Available,
		recvDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, l := range cfg.Listeners {
		c.Listen(l)
	}

	if deadline, ok := ctx.Deadline(); ok {
		c.t.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		c.t.SetDeadline(time.Unix(1, 0))
	})
	c.local, err = c.handshake(addr, password)
	if !stop() && err == nil {
		err = &HandshakeError{Err: ctx.Err()}
	}
	if err != nil {
		c.t.Close()
		return nil, err
	}
	c.t.SetDeadline(time.Time{})
	c.cfg.Debug.Printf("bound %s", c.local)

	go c.recv()
	return c, nil
}

// LocalAddr returns the full JID bound by the server.
func (c *Conn) LocalAddr() jid.JID {
	return c.local
}

// State returns the current lifecycle state.
func (c *Conn) State() ConnectionState {
	return c.state.state()
}

// Roster returns the contact directory maintained by the connection.
func (c *Conn) Roster() Directory {
	return c.cfg.Roster
}

// History returns the conversation store.
func (c *Conn) History() history.Store {
	return c.cfg.History
}

// send writes each element in order without interleaving other writes.
// The context is only checked before anything is written.
func (c *Conn) send(ctx context.Context, rs ...xml.TokenReader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.closing() {
		return ErrClosed
	}
	for _, r := range rs {
		if err := c.t.WriteElement(r); err != nil {
			if errors.Is(err, stream.ErrOutputClosed) {
				return ErrClosed
			}
			return &SendError{Err: err}
		}
	}
	return nil
}

// RequestRoster asks the server for the user's roster.
// Tracked items in the answer are added to the contact directory.
func (c *Conn) RequestRoster(ctx context.Context) error {
	return c.send(ctx, roster.Get(c.ids.Next(), c.local).TokenReader())
}

// SetStatus records the user's status and broadcasts it.
func (c *Conn) SetStatus(ctx context.Context, status roster.Status, text string) error {
	c.statusMu.Lock()
	c.status, c.statusText = status, text
	c.statusMu.Unlock()
	return c.SendCurrentStatus(ctx)
}

// Status returns the status last set with SetStatus.
// A new connection is Available.
func (c *Conn) Status() (roster.Status, string) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	return c.status, c.statusText
}

// SendCurrentStatus broadcasts the user's current status.
// It is usually called once after the roster has been requested.
func (c *Conn) SendCurrentStatus(ctx context.Context) error {
	status, text := c.Status()
	p := status.Presence(text)
	p.ID = c.ids.Next()
	return c.send(ctx, p.TokenReader())
}

// SendMessage sends a chat message and records it in the history.
//
// The first message to a contact goes to its bare JID. Once a conversation
// exists it goes to the contact's most recently seen resource, if any.
func (c *Conn) SendMessage(ctx context.Context, msg Message) error {
	from := msg.From
	if from.IsZero() {
		from = c.local
	}
	contact := msg.To.Bare()
	to := contact
	n, err := c.cfg.History.Len(ctx, contact)
	if err != nil {
		c.cfg.Logger.Printf("reading history of %s: %v", contact, err)
	}
	if n > 0 {
		if res := c.cfg.Roster.LastResource(contact); res != "" {
			if full, err := contact.WithResource(res); err == nil {
				to = full
			}
		}
	}

	out := stanza.Message{
		ID:   c.ids.Next(),
		Type: stanza.ChatMessage,
		From: from,
		To:   to,
		Lang: c.cfg.Lang,
		Body: msg.Body,
	}
	if err := c.send(ctx, out.TokenReader()); err != nil {
		return err
	}

	err = c.cfg.History.Append(ctx, history.Message{
		ID:       out.ID,
		Contact:  contact,
		Resource: to.Resourcepart(),
		Body:     msg.Body,
		Time:     time.Now(),
	})
	if err != nil {
		c.cfg.Logger.Printf("recording message to %s: %v", contact, err)
	}
	return nil
}

// SendNewContactRequest adds item to the roster and asks the contact for a
// presence subscription.
// The contact shows up in the directory once the server pushes the updated
// item.
func (c *Conn) SendNewContactRequest(ctx context.Context, item roster.Item) error {
	set := roster.Set(c.ids.Next(), item)
	sub := stanza.Presence{
		ID:   c.ids.Next(),
		Type: stanza.SubscribePresence,
		To:   item.JID.Bare(),
	}
	return c.send(ctx, set.TokenReader(), sub.TokenReader())
}

// RespondContactRequest accepts or refuses a subscription request from j.
func (c *Conn) RespondContactRequest(ctx context.Context, j jid.JID, accepted bool) error {
	p := stanza.Presence{
		ID:   c.ids.Next(),
		Type: stanza.UnsubscribedPresence,
		To:   j.Bare(),
	}
	if accepted {
		p.Type = stanza.SubscribedPresence
	}
	return c.send(ctx, p.TokenReader())
}

// RemoveContact asks the server to delete j from the roster.
// The contact leaves the directory once the server pushes the removal.
func (c *Conn) RemoveContact(ctx context.Context, j jid.JID) error {
	return c.send(ctx, roster.Delete(c.ids.Next(), j).TokenReader())
}
