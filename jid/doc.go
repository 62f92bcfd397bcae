// Copyright 2014 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package jid implements XMPP addresses (historically called "Jabber ID's" or
// "JID's") as described in RFC 7622.
//
// A JID is a comparable value type: two JIDs that were prepared from
// equivalent input compare equal with ==, which makes the bare form of a JID
// suitable for use as a map key.
package jid // import "mellium.im/imclient/jid"
