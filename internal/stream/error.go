// Copyright 2015 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stream

import (
	"errors"
	"strings"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/stanza"
)

// Errors related to stream handling.
var (
	ErrUnexpectedRestart = errors.New("stream: unexpected stream restart")
	ErrOutputClosed      = errors.New("stream: output stream already closed")
	ErrRestrictedXML     = errors.New("stream: comments, directives, and non-whitespace character data are not allowed")
)

// Error is an unrecoverable stream level error sent by the peer.
// For instance, given the error:
//
//	<stream:error>
//	  <host-unknown xmlns="urn:ietf:params:xml:ns:xmpp-streams"/>
//	</stream:error>
//
// Condition would be "host-unknown".
type Error struct {
	Condition string
	Text      string
}

// UnsupportedVersion is returned when the peer's stream header carries a
// version other than DefaultVersion.
var UnsupportedVersion = Error{Condition: "unsupported-version"}

// Error satisfies the builtin error interface.
func (s Error) Error() string {
	if s.Text == "" {
		return "stream: " + s.Condition
	}
	return "stream: " + s.Condition + ": " + s.Text
}

func decodeError(el stanza.Element) Error {
	var se Error
	for _, c := range el.Children {
		if c.XMLName.Space != ns.Streams {
			continue
		}
		if c.XMLName.Local == "text" {
			se.Text = strings.TrimSpace(c.Text)
			continue
		}
		if se.Condition == "" {
			se.Condition = c.XMLName.Local
		}
	}
	if se.Condition == "" {
		se.Condition = "undefined-condition"
	}
	return se
}
