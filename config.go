// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/text/language"

	"mellium.im/imclient/history"
	"mellium.im/imclient/internal/attr"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/roster"
)

// Defaults used when the corresponding Config field is empty.
const (
	DefaultLang         = "en"
	DefaultCloseTimeout = 3 * time.Second
)

// Directory is the contact directory kept up to date by a Conn.
// *roster.List is the default implementation.
type Directory interface {
	Add(item roster.Item) bool
	Remove(j jid.JID) (roster.Item, bool)
	Contains(j jid.JID) bool
	SetStatus(j jid.JID, resource string, s roster.Status) bool
	Seen(j jid.JID, resource string) bool
	LastResource(j jid.JID) string
}

// Config represents the configurable options of a Conn.
// The zero value is a valid configuration.
type Config struct {
	// Lang is the xml:lang of the stream and of outgoing messages.
	Lang string

	// Resource is the resourcepart requested during binding. If empty the
	// server assigns one.
	Resource string

	// Server overrides SRV discovery when dialing. It may be a host or a
	// host:port pair.
	Server string

	// IDPrefix is prepended to the identifiers of outgoing stanzas.
	IDPrefix string

	// CloseTimeout bounds how long Close waits for the server to close its
	// side of the stream.
	CloseTimeout time.Duration

	Roster  Directory
	History history.Store

	// Logger receives warnings about protocol anomalies and Debug receives
	// informational messages. Both default to discarding output.
	Logger *log.Logger
	Debug  *log.Logger

	// TeeIn and TeeOut, if set, receive a copy of the raw XML read from and
	// written to the network.
	TeeIn  io.Writer
	TeeOut io.Writer

	// Listeners are registered before the receive loop starts so that they see
	// every event. Each must implement at least one of the listener
	// interfaces.
	Listeners []interface{}
}

func (c Config) withDefaults() (Config, error) {
	if c.Lang == "" {
		c.Lang = DefaultLang
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return c, fmt.Errorf("imclient: invalid language %q: %w", c.Lang, err)
	}
	if c.IDPrefix == "" {
		c.IDPrefix = attr.DefaultPrefix
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = DefaultCloseTimeout
	}
	if c.Roster == nil {
		c.Roster = &roster.List{}
	}
	if c.History == nil {
		c.History = &history.Memory{}
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.Debug == nil {
		c.Debug = log.New(io.Discard, "", 0)
	}
	return c, nil
}
