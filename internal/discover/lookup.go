// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package discover is used to look up the TCP endpoints of an XMPP service.
package discover // import "mellium.im/imclient/internal/discover"

import (
	"context"
	"errors"
	"net"
)

// Service is the SRV service name of client-to-server connections without
// implicit TLS.
const Service = "xmpp-client"

// DefaultPort is the port used when no SRV records are published.
const DefaultPort = 5222

// ErrNoService is returned when the domain publishes a single SRV record with
// a target of ".", meaning the service is decidedly not available.
var ErrNoService = errors.New("discover: service is not available at this domain")

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	ok := errors.As(err, &dnsErr)
	return ok && dnsErr.IsNotFound
}

// FallbackRecords returns fake SRV records that can be used if no actual SRV
// records can be found but we believe that an XMPP service exists at the given
// domain.
func FallbackRecords(domain string) []*net.SRV {
	return []*net.SRV{{
		Target: domain,
		Port:   DefaultPort,
	}}
}

// LookupClient looks for an XMPP client service hosted by domain.
// It returns addresses from SRV records ordered by priority and weight and if
// none are found returns a fallback record pointing at the domain on the
// default port.
// A nil resolver means net.DefaultResolver.
func LookupClient(ctx context.Context, resolver *net.Resolver, domain string) ([]*net.SRV, error) {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	_, addrs, err := resolver.LookupSRV(ctx, Service, "tcp", domain)
	return records(addrs, err, domain)
}

func records(addrs []*net.SRV, err error, domain string) ([]*net.SRV, error) {
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		return FallbackRecords(domain), nil
	}
	if len(addrs) == 0 {
		return FallbackRecords(domain), nil
	}

	// RFC 6120 §3.2.1
	//    3.  If a response is received, it will contain one or more
	//        combinations of a port and FDQN, each of which is weighted and
	//        prioritized as described in [DNS-SRV].  (However, if the result
	//        of the SRV lookup is a single resource record with a Target of
	//        ".", i.e., the root domain, then the initiating entity MUST abort
	//        SRV processing at this point because according to [DNS-SRV] such
	//        a Target "means that the service is decidedly not available at
	//        this domain".)
	if len(addrs) == 1 && addrs[0].Target == "." {
		return nil, ErrNoService
	}
	return addrs, nil
}
