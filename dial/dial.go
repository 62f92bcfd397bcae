// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package dial contains methods and types for dialing XMPP connections.
package dial // import "mellium.im/imclient/dial"

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"mellium.im/imclient/internal/discover"
	"mellium.im/imclient/jid"
)

// A Dialer contains options for connecting to an XMPP address.
// After a connection is established the Dial method does not attempt to create
// an XMPP session on the connection.
//
// The zero value for each field is equivalent to dialing without that option.
type Dialer struct {
	net.Dialer

	// NoLookup stops the dialer from looking up SRV records for the given
	// domain. Instead, it will try to connect to the domain directly on the
	// default port.
	NoLookup bool

	// Server, if set, is dialed instead of the address's domain.
	// It is a host name or IP, optionally followed by a port.
	// Setting Server disables SRV lookup.
	Server string
}

// Dial discovers and connects to the address on the named network.
// If the context expires before the connection is complete, an error is
// returned. Once successfully connected, any expiration of the context will
// not affect the connection.
//
// Network may be any of the network types supported by net.Dial, but you
// most likely want to use one of the tcp connection types ("tcp", "tcp4", or
// "tcp6").
func (d *Dialer) Dial(ctx context.Context, network string, addr jid.JID) (net.Conn, error) {
	if d.Server != "" {
		return d.Dialer.DialContext(ctx, network, hostPort(d.Server))
	}
	domain := addr.Domainpart()
	if d.NoLookup {
		return d.Dialer.DialContext(ctx, network, net.JoinHostPort(domain, strconv.Itoa(discover.DefaultPort)))
	}

	addrs, err := discover.LookupClient(ctx, d.Resolver, domain)
	if err != nil {
		return nil, err
	}

	// Try dialing all of the SRV records we know about, breaking as soon as the
	// connection is established.
	err = fmt.Errorf("no xmpp service found at address %s", domain)
	for _, addr := range addrs {
		c, e := d.Dialer.DialContext(ctx, network, net.JoinHostPort(
			addr.Target,
			strconv.FormatUint(uint64(addr.Port), 10),
		))
		if e != nil {
			err = e
			continue
		}
		return c, nil
	}
	return nil, err
}

// hostPort adds the default port to server if it does not have one.
func hostPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, strconv.Itoa(discover.DefaultPort))
}
