// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"io"
)

// recv reads elements until the server closes its stream or the transport
// fails, then closes the connection.
func (c *Conn) recv() {
	defer func() {
		close(c.recvDone)
		c.Close()
	}()

	for {
		el, err := c.t.ReadElement()
		switch {
		case err == io.EOF:
			c.cfg.Debug.Printf("server closed the stream")
			return
		case err != nil:
			if !c.closing() {
				c.sessionError(&ReadError{Err: err})
			}
			return
		}
		c.dispatch(el)
	}
}
