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

// IQType is the type of an IQ stanza.
// It should normally be one of the constants defined in this package.
type IQType string

const (
	// GetIQ is used to query another entity for information.
	GetIQ IQType = "get"

	// SetIQ is used to provide data to another entity, set new values, and
	// replace existing values.
	SetIQ IQType = "set"

	// ResultIQ is sent in response to a successful get or set IQ.
	ResultIQ IQType = "result"

	// ErrorIQ is sent to report that an error occurred during the delivery or
	// processing of a get or set IQ.
	ErrorIQ IQType = "error"
)

func (t IQType) valid() bool {
	switch t {
	case GetIQ, SetIQ, ResultIQ, ErrorIQ:
		return true
	}
	return false
}

// IQ ("Information Query") is used as a general request response mechanism.
// IQ's are one-to-one, provide get and set semantics, and always require a
// response in the form of a result or an error.
type IQ struct {
	ID       string
	Type     IQType
	From     jid.JID
	To       jid.JID
	Lang     string
	Children []Element
}

func (IQ) isStanza() {}

// Payload returns the first child of the IQ, if any.
func (iq IQ) Payload() (Element, bool) {
	if len(iq.Children) == 0 {
		return Element{}, false
	}
	return iq.Children[0], true
}

// StanzaError returns the stanza error carried by an IQ of type error.
func (iq IQ) StanzaError() (Error, bool) {
	if iq.Type != ErrorIQ {
		return Error{}, false
	}
	for _, c := range iq.Children {
		if c.XMLName.Local == "error" {
			return decodeError(c), true
		}
	}
	return Error{}, true
}

// StartElement returns the iq start element including its attributes.
func (iq IQ) StartElement() xml.StartElement {
	start := xml.StartElement{
		Name: xml.Name{Local: "iq"},
		Attr: addressAttrs(iq.ID, iq.To, iq.From, iq.Lang),
	}
	return withType(start, string(iq.Type))
}

// Wrap wraps the payload in an iq element.
func (iq IQ) Wrap(payload xml.TokenReader) xml.TokenReader {
	return xmlstream.Wrap(payload, iq.StartElement())
}

// TokenReader satisfies the Stanza interface.
// The IQ's Children are used as its payload.
func (iq IQ) TokenReader() xml.TokenReader {
	inner := make([]xml.TokenReader, 0, len(iq.Children))
	for _, c := range iq.Children {
		inner = append(inner, c.TokenReader())
	}
	return iq.Wrap(xmlstream.MultiReader(inner...))
}

func decodeIQ(el Element, id string, from, to jid.JID, lang string) (Stanza, error) {
	typ := IQType(el.Attribute("type"))
	if !typ.valid() {
		return nil, fmt.Errorf("%w: iq type %q", ErrBadType, typ)
	}
	return IQ{
		ID:       id,
		Type:     typ,
		From:     from,
		To:       to,
		Lang:     lang,
		Children: el.Children,
	}, nil
}

func withType(start xml.StartElement, typ string) xml.StartElement {
	if typ != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "type"}, Value: typ})
	}
	return start
}
