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

// MessageType is the type of a message stanza.
// It should normally be one of the constants defined in this package.
type MessageType string

const (
	// NormalMessage is a standalone message that is sent outside the context of
	// a one-to-one conversation or groupchat, and to which it is expected that
	// the recipient will reply. It is the default when no type is given.
	NormalMessage MessageType = "normal"

	// ChatMessage represents a message sent in the context of a one-to-one chat
	// session.
	ChatMessage MessageType = "chat"

	// ErrorMessage is generated by an entity that experiences an error when
	// processing a message received from another entity.
	ErrorMessage MessageType = "error"

	// GroupChatMessage is sent in the context of a multi-user chat environment.
	GroupChatMessage MessageType = "groupchat"

	// HeadlineMessage provides an alert, a notification, or other transient
	// information to which no reply is expected.
	HeadlineMessage MessageType = "headline"
)

func (t MessageType) valid() bool {
	switch t {
	case NormalMessage, ChatMessage, ErrorMessage, GroupChatMessage, HeadlineMessage:
		return true
	}
	return false
}

// Message is an XMPP stanza that contains a payload for direct one-to-one
// communication with another network entity.
type Message struct {
	ID   string
	Type MessageType
	From jid.JID
	To   jid.JID
	Lang string
	Body string
}

func (Message) isStanza() {}

// StartElement returns the message start element including its attributes.
func (msg Message) StartElement() xml.StartElement {
	start := xml.StartElement{
		Name: xml.Name{Local: "message"},
		Attr: addressAttrs(msg.ID, msg.To, msg.From, msg.Lang),
	}
	return withType(start, string(msg.Type))
}

// Wrap wraps the payload in a message element.
// If the message has a body it is written before the payload.
func (msg Message) Wrap(payload xml.TokenReader) xml.TokenReader {
	var inner []xml.TokenReader
	if msg.Body != "" {
		inner = append(inner, textElement(xml.Name{Local: "body"}, msg.Body))
	}
	if payload != nil {
		inner = append(inner, payload)
	}
	return xmlstream.Wrap(xmlstream.MultiReader(inner...), msg.StartElement())
}

// TokenReader satisfies the Stanza interface.
func (msg Message) TokenReader() xml.TokenReader {
	return msg.Wrap(nil)
}

func decodeMessage(el Element, id string, from, to jid.JID, lang string) (Stanza, error) {
	typ := MessageType(el.Attribute("type"))
	if typ == "" {
		typ = NormalMessage
	}
	if !typ.valid() {
		return nil, fmt.Errorf("%w: message type %q", ErrBadType, typ)
	}
	msg := Message{
		ID:   id,
		Type: typ,
		From: from,
		To:   to,
		Lang: lang,
	}
	if body, ok := el.Child(xml.Name{Local: "body"}); ok {
		msg.Body = body.Text
	}
	return msg, nil
}
