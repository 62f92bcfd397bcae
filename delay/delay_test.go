// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package delay_test

import (
	"encoding/xml"
	"strconv"
	"testing"
	"time"

	"mellium.im/imclient/delay"
	"mellium.im/imclient/stanza"
)

var findTests = [...]struct {
	in    string
	ok    bool
	out   delay.Delay
	stamp time.Time
}{
	0: {in: `<message xmlns="jabber:client"><body>hi</body></message>`},
	1: {
		in:    `<message xmlns="jabber:client"><body>hi</body><delay xmlns="urn:xmpp:delay" from="capulet.com" stamp="2002-09-10T23:08:25Z">Offline Storage</delay></message>`,
		ok:    true,
		out:   delay.Delay{Reason: "Offline Storage"},
		stamp: time.Date(2002, time.September, 10, 23, 8, 25, 0, time.UTC),
	},
	2: {
		in:    `<message xmlns="jabber:client"><delay xmlns="urn:xmpp:delay" stamp="2002-09-10T23:08:25.123-07:00"/></message>`,
		ok:    true,
		stamp: time.Date(2002, time.September, 11, 6, 8, 25, 123000000, time.UTC),
	},
	3: {
		// Legacy delays and bad stamps are not delays.
		in: `<message xmlns="jabber:client"><x xmlns="jabber:x:delay" stamp="20020910T23:08:25"/><delay xmlns="urn:xmpp:delay" stamp="yesterday"/></message>`,
	},
	4: {
		in:    `<message xmlns="jabber:client"><delay xmlns="urn:xmpp:delay"/><delay xmlns="urn:xmpp:delay" stamp="2002-09-10T23:08:25Z" from="@"/></message>`,
		ok:    true,
		stamp: time.Date(2002, time.September, 10, 23, 8, 25, 0, time.UTC),
	},
}

func TestFind(t *testing.T) {
	for i, tc := range findTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var el stanza.Element
			if err := xml.Unmarshal([]byte(tc.in), &el); err != nil {
				t.Fatalf("error unmarshaling: %v", err)
			}
			d, ok := delay.Find(el)
			if ok != tc.ok {
				t.Fatalf("wrong result: want=%t, got=%t", tc.ok, ok)
			}
			if !ok {
				return
			}
			if !d.Time.Equal(tc.stamp) {
				t.Errorf("wrong stamp: want=%v, got=%v", tc.stamp, d.Time)
			}
			if d.Reason != tc.out.Reason {
				t.Errorf("wrong reason: want=%q, got=%q", tc.out.Reason, d.Reason)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	var el stanza.Element
	err := xml.Unmarshal([]byte(`<delay xmlns="urn:xmpp:delay" from="capulet.com" stamp="2002-09-10T23:08:25Z"/>`), &el)
	if err != nil {
		t.Fatalf("error unmarshaling: %v", err)
	}
	d, err := delay.Decode(el)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := d.From.String(); s != "capulet.com" {
		t.Errorf("wrong from: %q", s)
	}
}
