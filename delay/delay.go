// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package delay reads the delayed delivery information that servers attach to
// stanzas stored while the recipient was offline (XEP-0203).
package delay // import "mellium.im/imclient/delay"

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"mellium.im/imclient/jid"
	"mellium.im/imclient/stanza"
)

// NS is the namespace used by this package.
const NS = "urn:xmpp:delay"

// Delay indicates that a stanza was delivered later than it was sent.
type Delay struct {
	From   jid.JID
	Time   time.Time
	Reason string
}

// Find returns the first valid delay child of el.
func Find(el stanza.Element) (Delay, bool) {
	for _, c := range el.Children {
		if c.XMLName != (xml.Name{Space: NS, Local: "delay"}) {
			continue
		}
		if d, err := Decode(c); err == nil {
			return d, true
		}
	}
	return Delay{}, false
}

// Decode parses a delay element.
// The stamp attribute is required and uses the XEP-0082 DateTime profile.
func Decode(el stanza.Element) (Delay, error) {
	stamp := el.Attribute("stamp")
	if stamp == "" {
		return Delay{}, fmt.Errorf("delay: missing stamp")
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return Delay{}, fmt.Errorf("delay: bad stamp: %w", err)
	}
	d := Delay{
		Time:   t,
		Reason: strings.TrimSpace(el.Text),
	}
	if from := el.Attribute("from"); from != "" {
		// An unparsable from is dropped rather than failing the whole delay.
		d.From, _ = jid.Parse(from)
	}
	return d, nil
}
