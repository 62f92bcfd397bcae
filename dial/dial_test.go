// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dial

import (
	"context"
	"net"
	"strconv"
	"testing"

	"mellium.im/imclient/jid"
)

var hostPortTests = [...]struct {
	in  string
	out string
}{
	0: {in: "example.com", out: "example.com:5222"},
	1: {in: "example.com:5269", out: "example.com:5269"},
	2: {in: "127.0.0.1", out: "127.0.0.1:5222"},
	3: {in: "[::1]:1234", out: "[::1]:1234"},
	4: {in: "::1", out: "[::1]:5222"},
}

func TestHostPort(t *testing.T) {
	for i, tc := range hostPortTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if out := hostPort(tc.in); out != tc.out {
				t.Errorf("wrong address: want=%s, got=%s", tc.out, out)
			}
		})
	}
}

func TestDialServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("error listening: %v", err)
	}
	defer ln.Close()
	accepted := make(chan struct{})
	go func() {
		c, err := ln.Accept()
		if err == nil {
			c.Close()
		}
		close(accepted)
	}()

	d := Dialer{Server: ln.Addr().String()}
	c, err := d.Dial(context.Background(), "tcp", jid.MustParse("juliet@example.com"))
	if err != nil {
		t.Fatalf("error dialing: %v", err)
	}
	c.Close()
	<-accepted
}
