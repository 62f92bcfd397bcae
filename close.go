// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"errors"
	"time"

	"mellium.im/imclient/stanza"
)

// closing reports whether Close has been called.
func (c *Conn) closing() bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.isClosing
}

// Close ends the session.
// Unless the server already closed its stream, an unavailable presence is
// sent first. Close then sends the closing stream tag, waits up to
// Config.CloseTimeout for the server to close its side and closes the
// underlying connection.
//
// Only the first call does any work; later calls return nil immediately. Use
// Done to wait for a close started elsewhere to finish.
// If Close is called from a listener it returns after the timeout since the
// receive loop cannot finish while the listener runs.
func (c *Conn) Close() error {
	c.closeMu.Lock()
	if c.isClosing {
		c.closeMu.Unlock()
		return nil
	}
	c.isClosing = true
	c.closeMu.Unlock()
	c.state.fire(triggerClose)

	var errs []error
	c.wmu.Lock()
	if !c.t.Complete() {
		p := stanza.Presence{Type: stanza.UnavailablePresence, Status: "leaving"}
		if err := c.t.WriteElement(p.TokenReader()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.t.CloseStream(); err != nil {
		errs = append(errs, err)
	}
	c.wmu.Unlock()

	timer := time.NewTimer(c.cfg.CloseTimeout)
	select {
	case <-c.recvDone:
	case <-timer.C:
		c.cfg.Logger.Printf("server did not close the stream within %s", c.cfg.CloseTimeout)
	}
	timer.Stop()

	if err := c.t.Close(); err != nil {
		errs = append(errs, err)
	}
	c.state.fire(triggerClosed)
	c.sessionClosed()
	close(c.done)
	return errors.Join(errs...)
}

// Done returns a channel that is closed once the connection has been closed,
// whether by Close, by the server or because of a transport failure.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}
