// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ns provides namespace constants that are used by the imclient package
// and other internal packages.
package ns // import "mellium.im/imclient/internal/ns"

// List of commonly used namespaces.
const (
	Bind    = "urn:ietf:params:xml:ns:xmpp-bind"
	Client  = "jabber:client"
	Roster  = "jabber:iq:roster"
	SASL    = "urn:ietf:params:xml:ns:xmpp-sasl"
	Stanza  = "urn:ietf:params:xml:ns:xmpp-stanzas"
	Stream  = "http://etherx.jabber.org/streams"
	Streams = "urn:ietf:params:xml:ns:xmpp-streams"
	XML     = "http://www.w3.org/XML/1998/namespace"
)
