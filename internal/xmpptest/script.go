// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpptest

import (
	"fmt"
	"strings"
)

// ServerHeader is the stream header sent by the scripted server.
const ServerHeader = `<?xml version='1.0'?><stream:stream xmlns='jabber:client' xmlns:stream='http://etherx.jabber.org/streams' id='c2s1' from='example.com' version='1.0' xml:lang='en'>`

// Features returns a stream features element offering the SASL mechanisms.
func Features(mechanisms ...string) string {
	var b strings.Builder
	b.WriteString(`<stream:features><mechanisms xmlns='urn:ietf:params:xml:ns:xmpp-sasl'>`)
	for _, m := range mechanisms {
		fmt.Fprintf(&b, "<mechanism>%s</mechanism>", m)
	}
	b.WriteString(`</mechanisms></stream:features>`)
	return b.String()
}

// BindFeatures is the stream features element sent after the stream restart.
const BindFeatures = `<stream:features><bind xmlns='urn:ietf:params:xml:ns:xmpp-bind'/></stream:features>`

// Success is a successful SASL outcome.
const Success = `<success xmlns='urn:ietf:params:xml:ns:xmpp-sasl'/>`

// BindResult returns the response to the first bind request of a connection.
func BindResult(full string) string {
	return fmt.Sprintf(`<iq type='result' id='sammy0'><bind xmlns='urn:ietf:params:xml:ns:xmpp-bind'><jid>%s</jid></bind></iq>`, full)
}

// Handshake returns the server side of a successful handshake that binds
// full.
func Handshake(full string) string {
	return ServerHeader + Features("SCRAM-SHA-1", "PLAIN") + Success +
		ServerHeader + BindFeatures + BindResult(full)
}
