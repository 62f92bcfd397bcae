// Copyright 2018 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package roster implements contact list functionality.
package roster // import "mellium.im/imclient/roster"

import (
	"encoding/xml"

	"mellium.im/xmlstream"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/stanza"
)

// NS is the roster namespace provided as a convenience.
const NS = ns.Roster

// Subscription is the state of the presence subscription between the user and
// a contact.
type Subscription string

// Subscription states defined in RFC 6121 §2.1.2.5.
// Remove is only ever used to delete an item.
const (
	None   Subscription = "none"
	To     Subscription = "to"
	From   Subscription = "from"
	Both   Subscription = "both"
	Remove Subscription = "remove"
)

// Item represents a contact in the roster.
// JID is always a bare JID.
type Item struct {
	JID          jid.JID
	Name         string
	Subscription Subscription
	Ask          bool
	Group        string
}

// Tracked reports whether the item belongs in the local contact directory:
// the user receives the contact's presence or has asked to.
func (item Item) Tracked() bool {
	return item.Subscription == Both || item.Subscription == To || item.Ask
}

// TokenReader satisfies the xmlstream.Marshaler interface.
// Ask is never written since it is controlled by the server.
func (item Item) TokenReader() xml.TokenReader {
	var group xml.TokenReader
	if item.Group != "" {
		group = xmlstream.Wrap(
			xmlstream.Token(xml.CharData(item.Group)),
			xml.StartElement{
				Name: xml.Name{Local: "group"},
			},
		)
	}

	attrs := []xml.Attr{}
	if j := item.JID.String(); j != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "jid"}, Value: j})
	}
	if item.Name != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "name"}, Value: item.Name})
	}
	if item.Subscription != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "subscription"}, Value: string(item.Subscription)})
	}

	return xmlstream.Wrap(
		group,
		xml.StartElement{
			Name: xml.Name{Local: "item"},
			Attr: attrs,
		},
	)
}

// IQ represents a user roster request or push.
// The zero value is a valid query for the roster once its type and ID are
// set.
type IQ struct {
	stanza.IQ

	Items []Item
}

// Get returns a roster request.
func Get(id string, from jid.JID) IQ {
	return IQ{IQ: stanza.IQ{ID: id, Type: stanza.GetIQ, From: from}}
}

// Set returns a request adding or updating item.
// Subscription state is controlled by the server and is not sent.
func Set(id string, item Item) IQ {
	item.JID = item.JID.Bare()
	item.Subscription = ""
	return IQ{
		IQ:    stanza.IQ{ID: id, Type: stanza.SetIQ},
		Items: []Item{item},
	}
}

// Delete returns a request removing j from the roster.
func Delete(id string, j jid.JID) IQ {
	return IQ{
		IQ:    stanza.IQ{ID: id, Type: stanza.SetIQ},
		Items: []Item{{JID: j.Bare(), Subscription: Remove}},
	}
}

// TokenReader returns a stream of XML tokens that match the IQ.
func (iq IQ) TokenReader() xml.TokenReader {
	items := make([]xml.TokenReader, 0, len(iq.Items))
	for _, item := range iq.Items {
		items = append(items, item.TokenReader())
	}
	return iq.IQ.Wrap(xmlstream.Wrap(
		xmlstream.MultiReader(items...),
		xml.StartElement{Name: xml.Name{Local: "query", Space: NS}},
	))
}

// FromIQ extracts the roster items carried by an IQ.
// If the IQ does not contain a roster query ok is false.
// Items with a missing or invalid JID are skipped.
func FromIQ(iq stanza.IQ) (items []Item, ok bool) {
	var query stanza.Element
	for _, c := range iq.Children {
		if c.XMLName.Space == NS && c.XMLName.Local == "query" {
			query, ok = c, true
			break
		}
	}
	if !ok {
		return nil, false
	}
	for _, c := range query.Children {
		if c.XMLName.Local != "item" {
			continue
		}
		item, err := decodeItem(c)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, true
}

func decodeItem(el stanza.Element) (Item, error) {
	j, err := jid.Parse(el.Attribute("jid"))
	if err != nil {
		return Item{}, err
	}
	item := Item{
		JID:          j.Bare(),
		Name:         el.Attribute("name"),
		Subscription: Subscription(el.Attribute("subscription")),
		Ask:          el.Attribute("ask") == "subscribe",
	}
	if item.Subscription == "" {
		item.Subscription = None
	}
	item.Group, _ = el.ChildText(xml.Name{Local: "group"})
	return item, nil
}
