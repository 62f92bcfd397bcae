// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"
	"fmt"

	"mellium.im/xmlstream"

	"mellium.im/imclient/jid"
)

// PresenceType is the type of a presence stanza.
// It should normally be one of the constants defined in this package.
type PresenceType string

const (
	// AvailablePresence is a special case that signals that the entity is
	// available for communication. It is encoded as a missing type attribute.
	AvailablePresence PresenceType = ""

	// ErrorPresence indicates that an error has occurred regarding processing
	// of a previously sent presence stanza.
	ErrorPresence PresenceType = "error"

	// ProbePresence is a request for an entity's current presence.
	ProbePresence PresenceType = "probe"

	// SubscribePresence is sent when the sender wishes to subscribe to the
	// recipient's presence.
	SubscribePresence PresenceType = "subscribe"

	// SubscribedPresence indicates that the sender has allowed the recipient to
	// receive future presence broadcasts.
	SubscribedPresence PresenceType = "subscribed"

	// UnavailablePresence indicates that the sender is no longer available for
	// communication.
	UnavailablePresence PresenceType = "unavailable"

	// UnsubscribePresence indicates that the sender is unsubscribing from the
	// receiver's presence.
	UnsubscribePresence PresenceType = "unsubscribe"

	// UnsubscribedPresence indicates that a subscription request has been
	// denied or a previously granted subscription has been revoked.
	UnsubscribedPresence PresenceType = "unsubscribed"
)

func (t PresenceType) valid() bool {
	switch t {
	case AvailablePresence, ErrorPresence, ProbePresence, SubscribePresence,
		SubscribedPresence, UnavailablePresence, UnsubscribePresence,
		UnsubscribedPresence:
		return true
	}
	return false
}

// Show is the availability sub-state carried by an available presence.
type Show string

// The show values defined in RFC 6121 §4.7.2.1.
const (
	ShowAway Show = "away"
	ShowChat Show = "chat"
	ShowDND  Show = "dnd"
	ShowXA   Show = "xa"
)

// Valid reports whether s is exactly one of the defined show values.
// Comparison is case sensitive.
func (s Show) Valid() bool {
	switch s {
	case ShowAway, ShowChat, ShowDND, ShowXA:
		return true
	}
	return false
}

// Presence is an XMPP stanza that is used as an indication that an entity is
// available for communication and to manage presence subscriptions.
//
// Show is only meaningful for available presence; it is never encoded for
// other types and is cleared by Decode when the type is set.
// A decoded Show may hold a value for which Valid reports false, callers
// decide how to treat it.
// HasShow records whether a decoded presence carried a show child, which
// tells an empty <show/> apart from no show at all. It is ignored when
// encoding.
type Presence struct {
	ID      string
	Type    PresenceType
	From    jid.JID
	To      jid.JID
	Lang    string
	Show    Show
	HasShow bool
	Status  string
}

func (Presence) isStanza() {}

// StartElement returns the presence start element including its attributes.
func (p Presence) StartElement() xml.StartElement {
	start := xml.StartElement{
		Name: xml.Name{Local: "presence"},
		Attr: addressAttrs(p.ID, p.To, p.From, p.Lang),
	}
	return withType(start, string(p.Type))
}

// Wrap wraps the payload in a presence element.
// The show and status children are written before the payload.
func (p Presence) Wrap(payload xml.TokenReader) xml.TokenReader {
	var inner []xml.TokenReader
	if p.Type == AvailablePresence && p.Show != "" {
		inner = append(inner, textElement(xml.Name{Local: "show"}, string(p.Show)))
	}
	if p.Status != "" {
		inner = append(inner, textElement(xml.Name{Local: "status"}, p.Status))
	}
	if payload != nil {
		inner = append(inner, payload)
	}
	return xmlstream.Wrap(xmlstream.MultiReader(inner...), p.StartElement())
}

// TokenReader satisfies the Stanza interface.
func (p Presence) TokenReader() xml.TokenReader {
	return p.Wrap(nil)
}

func decodePresence(el Element, id string, from, to jid.JID, lang string) (Stanza, error) {
	typ := PresenceType(el.Attribute("type"))
	if !typ.valid() {
		return nil, fmt.Errorf("%w: presence type %q", ErrBadType, typ)
	}
	p := Presence{
		ID:   id,
		Type: typ,
		From: from,
		To:   to,
		Lang: lang,
	}
	p.Status, _ = el.ChildText(xml.Name{Local: "status"})
	if typ == AvailablePresence {
		show, ok := el.ChildText(xml.Name{Local: "show"})
		p.Show, p.HasShow = Show(show), ok
	}
	return p, nil
}
