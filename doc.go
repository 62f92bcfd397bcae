// Copyright 2014 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package imclient is a one-to-one chat and roster client for XMPP.
//
// A Conn is created with Dial, or with NewConn over an existing connection.
// Either one negotiates the stream, authenticates with SASL PLAIN as described
// in RFC 6120 §6, binds a resource and then starts a receive loop that keeps
// the contact directory and the conversation history up to date:
//
//	c, err := imclient.Dial(ctx, jid.MustParse("juliet@example.com"), pass, imclient.Config{
//		Listeners: []interface{}{
//			imclient.MessageFunc(func(contact jid.JID, resource, body string) {
//				fmt.Printf("%s: %s\n", contact, body)
//			}),
//		},
//	})
//	if err != nil {
//		// …
//	}
//	defer c.Close()
//	err = c.RequestRoster(ctx)
//
// Inbound stanzas only ever change local state and notify listeners. The
// receive loop never answers the server on its own.
// Chat messages from senders that are not in the contact directory are
// dropped.
//
// Be advised: TLS is not negotiated, so credentials are sent in the clear
// unless the underlying connection is already secured.
package imclient // import "mellium.im/imclient"
