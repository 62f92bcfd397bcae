// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"
	"strings"

	"mellium.im/xmlstream"

	"mellium.im/imclient/internal/attr"
	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/jid"
)

// Element is a generic XML element as read from the stream.
// It is the unit the transport hands to the rest of the client before the
// element has been classified.
type Element struct {
	XMLName  xml.Name
	Attr     []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Element  `xml:",any"`
}

// Attribute returns the value of the un-namespaced attribute with the given
// local name, or the empty string if no such attribute exists.
func (e Element) Attribute(local string) string {
	_, v := attr.Get(e.Attr, local)
	return v
}

// Child returns the first child matching name.
// If name.Space is empty only the local name is compared.
func (e Element) Child(name xml.Name) (Element, bool) {
	for _, c := range e.Children {
		if c.XMLName.Local != name.Local {
			continue
		}
		if name.Space != "" && c.XMLName.Space != name.Space {
			continue
		}
		return c, true
	}
	return Element{}, false
}

// ChildText returns the whitespace trimmed character data of the first child
// matching name and whether such a child exists.
func (e Element) ChildText(name xml.Name) (string, bool) {
	c, ok := e.Child(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(c.Text), true
}

// FirstChild returns the first child element, if any.
func (e Element) FirstChild() (Element, bool) {
	if len(e.Children) == 0 {
		return Element{}, false
	}
	return e.Children[0], true
}

// TokenReader re-encodes the element.
// Namespace declarations in Attr are dropped in favor of XMLName.Space, and
// character data is emitted before any children.
func (e Element) TokenReader() xml.TokenReader {
	start := xml.StartElement{Name: e.XMLName}
	for _, a := range e.Attr {
		if a.Name.Local == "xmlns" || a.Name.Space == "xmlns" {
			continue
		}
		start.Attr = append(start.Attr, a)
	}
	var inner []xml.TokenReader
	if e.Text != "" {
		inner = append(inner, xmlstream.Token(xml.CharData(e.Text)))
	}
	for _, c := range e.Children {
		inner = append(inner, c.TokenReader())
	}
	return xmlstream.Wrap(xmlstream.MultiReader(inner...), start)
}

// textElement returns a token reader for an element containing only
// character data.
func textElement(name xml.Name, text string) xml.TokenReader {
	return xmlstream.Wrap(
		xmlstream.Token(xml.CharData(text)),
		xml.StartElement{Name: name},
	)
}

// addressAttrs returns the common stanza attributes, omitting empty values.
func addressAttrs(id string, to, from jid.JID, lang string) []xml.Attr {
	var attrs []xml.Attr
	if id != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "id"}, Value: id})
	}
	if a, err := to.MarshalXMLAttr(xml.Name{Local: "to"}); err == nil && a.Value != "" {
		attrs = append(attrs, a)
	}
	if a, err := from.MarshalXMLAttr(xml.Name{Local: "from"}); err == nil && a.Value != "" {
		attrs = append(attrs, a)
	}
	if lang != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Space: ns.XML, Local: "lang"}, Value: lang})
	}
	return attrs
}
