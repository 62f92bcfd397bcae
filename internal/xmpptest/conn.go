// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmpptest provides utilities for XMPP testing.
package xmpptest // import "mellium.im/imclient/internal/xmpptest"

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// Conn is an in-memory connection to a scripted server.
//
// Reads first drain the script passed to NewConn and then block until more
// input is pushed with Send. Everything written to the Conn is recorded and
// can be retrieved with Output.
type Conn struct {
	r   io.Reader
	pr  *io.PipeReader
	pw  *io.PipeWriter
	mu  sync.Mutex
	out bytes.Buffer

	echoClose bool
	echoed    bool
	closed    int
}

// NewConn returns a connection that will read script before any input pushed
// with Send.
func NewConn(script string) *Conn {
	pr, pw := io.Pipe()
	return &Conn{
		r:  io.MultiReader(strings.NewReader(script), pr),
		pr: pr,
		pw: pw,
	}
}

// EchoClose makes the server answer the client's closing tag with its own.
// It must be called before the connection is used.
func (c *Conn) EchoClose() *Conn {
	c.echoClose = true
	return c
}

// Read satisfies io.Reader.
func (c *Conn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

// Write satisfies io.Writer.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.out.Write(p)
	if c.echoClose && !c.echoed && bytes.Contains(c.out.Bytes(), []byte("</stream:stream>")) {
		c.echoed = true
		go c.Send("</stream:stream>")
	}
	return n, err
}

// Close unblocks any pending reads and counts how often it was called.
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	return c.pr.Close()
}

// Send pushes input to the client.
// It blocks until the client has read all of it or the connection is closed.
func (c *Conn) Send(s string) error {
	_, err := io.WriteString(c.pw, s)
	return err
}

// Output returns everything the client has written so far.
func (c *Conn) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

// Closed returns the number of times Close was called.
func (c *Conn) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
