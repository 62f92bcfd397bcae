// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"
	"errors"
	"fmt"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/jid"
)

// Errors returned by Decode.
var (
	ErrUnknownStanza = errors.New("stanza: unrecognized top level element")
	ErrBadType       = errors.New("stanza: invalid type attribute")
)

// Stanza is one of IQ, Presence, or Message.
// No other types implement it.
type Stanza interface {
	// TokenReader returns the stanza serialized as XML tokens.
	TokenReader() xml.TokenReader

	isStanza()
}

// Is checks whether name is the name of a stanza in the jabber:client
// namespace (or the empty namespace which inherits the stream default).
func Is(name xml.Name) bool {
	switch name.Local {
	case "iq", "message", "presence":
	default:
		return false
	}
	return name.Space == "" || name.Space == ns.Client
}

// Decode classifies a top level element read from the stream.
// Elements that are not stanzas result in ErrUnknownStanza, malformed
// attributes result in an error wrapping ErrBadType or the address parsing
// error.
func Decode(el Element) (Stanza, error) {
	if !Is(el.XMLName) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStanza, el.XMLName.Local)
	}
	var (
		from, to jid.JID
		err      error
	)
	if v := el.Attribute("from"); v != "" {
		from, err = jid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("stanza: bad from address %q: %w", v, err)
		}
	}
	if v := el.Attribute("to"); v != "" {
		to, err = jid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("stanza: bad to address %q: %w", v, err)
		}
	}
	id := el.Attribute("id")
	lang := langAttr(el.Attr)

	switch el.XMLName.Local {
	case "iq":
		return decodeIQ(el, id, from, to, lang)
	case "presence":
		return decodePresence(el, id, from, to, lang)
	default:
		return decodeMessage(el, id, from, to, lang)
	}
}

func langAttr(attrs []xml.Attr) string {
	for _, a := range attrs {
		if a.Name.Local == "lang" && (a.Name.Space == ns.XML || a.Name.Space == "xml") {
			return a.Value
		}
	}
	return ""
}
