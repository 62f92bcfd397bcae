// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package stanza contains the typed representations of the three XMPP
// stanzas and the stanza level errors they may carry.
//
// Stanzas (Message, Presence, and IQ) are the "primitives" of XMPP. Messages
// are used to send data that is fire-and-forget such as chat messages,
// Presence is used to broadcast availability on the network (sometimes called
// "status" in chat, eg. online, offline, or away) and to manage subscriptions,
// and IQ (Info-Query) is used as a request response mechanism, for instance
// when fetching or editing the roster.
//
// Inbound elements are read off the wire as a generic Element tree and
// classified once by Decode into exactly one of the Stanza variants.
// Outbound stanzas are turned into an xml.TokenReader with their TokenReader
// or Wrap methods.
package stanza // import "mellium.im/imclient/stanza"
