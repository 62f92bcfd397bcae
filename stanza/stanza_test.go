// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza_test

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"testing"

	"mellium.im/xmlstream"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/stanza"
)

func parse(t *testing.T, s string) stanza.Element {
	t.Helper()
	var el stanza.Element
	if err := xml.Unmarshal([]byte(s), &el); err != nil {
		t.Fatalf("error unmarshaling %q: %v", s, err)
	}
	return el
}

func encode(t *testing.T, r xml.TokenReader) string {
	t.Helper()
	var b strings.Builder
	e := xml.NewEncoder(&b)
	if _, err := xmlstream.Copy(e, r); err != nil {
		t.Fatalf("error encoding: %v", err)
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("error flushing: %v", err)
	}
	return b.String()
}

var encodeTests = [...]struct {
	s   stanza.Stanza
	out string
}{
	0: {
		s:   stanza.Presence{ID: "sammy1", To: jid.MustParse("romeo@example.net"), Type: stanza.SubscribePresence},
		out: `<presence id="sammy1" to="romeo@example.net" type="subscribe"></presence>`,
	},
	1: {
		s:   stanza.Presence{Show: stanza.ShowAway, Status: "brb"},
		out: `<presence><show>away</show><status>brb</status></presence>`,
	},
	2: {
		s:   stanza.Presence{Type: stanza.UnavailablePresence, Show: stanza.ShowAway, Status: "leaving"},
		out: `<presence type="unavailable"><status>leaving</status></presence>`,
	},
	3: {
		s: stanza.Message{
			ID:   "sammy2",
			To:   jid.MustParse("juliet@example.com/balcony"),
			From: jid.MustParse("romeo@example.net/orchard"),
			Lang: "en",
			Type: stanza.ChatMessage,
			Body: "hi & bye",
		},
		out: `<message id="sammy2" to="juliet@example.com/balcony" from="romeo@example.net/orchard" xml:lang="en" type="chat"><body>hi &amp; bye</body></message>`,
	},
	4: {
		s: stanza.IQ{
			ID:       "sammy0",
			Type:     stanza.SetIQ,
			Children: []stanza.Element{{XMLName: xml.Name{Space: ns.Bind, Local: "bind"}}},
		},
		out: `<iq id="sammy0" type="set"><bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"></bind></iq>`,
	},
	5: {
		s:   stanza.IQ{ID: "a", Type: stanza.ResultIQ},
		out: `<iq id="a" type="result"></iq>`,
	},
}

func TestEncode(t *testing.T) {
	for i, tc := range encodeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if out := encode(t, tc.s.TokenReader()); out != tc.out {
				t.Errorf("wrong output:\nwant=%s,\n got=%s", tc.out, out)
			}
		})
	}
}

var decodeTests = [...]struct {
	in  string
	out stanza.Stanza
}{
	0: {
		in: `<presence from="romeo@example.net/orchard" type="unavailable"><show>away</show></presence>`,
		out: stanza.Presence{
			Type: stanza.UnavailablePresence,
			From: jid.MustParse("romeo@example.net/orchard"),
		},
	},
	1: {
		in: `<presence xmlns="jabber:client" from="romeo@example.net/orchard"><show>dnd</show><status> busy </status></presence>`,
		out: stanza.Presence{
			From:    jid.MustParse("romeo@example.net/orchard"),
			Show:    stanza.ShowDND,
			HasShow: true,
			Status:  "busy",
		},
	},
	2: {
		in:  `<presence><show>Away</show></presence>`,
		out: stanza.Presence{Show: "Away", HasShow: true},
	},
	3: {
		in: `<message from="romeo@example.net/orchard" type="chat" id="1" xml:lang="en"><body>hi</body></message>`,
		out: stanza.Message{
			ID:   "1",
			Type: stanza.ChatMessage,
			From: jid.MustParse("romeo@example.net/orchard"),
			Lang: "en",
			Body: "hi",
		},
	},
	4: {
		in:  `<message to="juliet@example.com"/>`,
		out: stanza.Message{Type: stanza.NormalMessage, To: jid.MustParse("juliet@example.com")},
	},
	5: {
		in:  `<presence from="romeo@example.net" type="subscribe"/>`,
		out: stanza.Presence{Type: stanza.SubscribePresence, From: jid.MustParse("romeo@example.net")},
	},
	6: {
		in:  `<presence><show/></presence>`,
		out: stanza.Presence{HasShow: true},
	},
	7: {
		in:  `<presence type="unavailable"><show>dnd</show></presence>`,
		out: stanza.Presence{Type: stanza.UnavailablePresence},
	},
}

func TestDecode(t *testing.T) {
	for i, tc := range decodeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			s, err := stanza.Decode(parse(t, tc.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s != tc.out {
				t.Errorf("wrong stanza: want=%+v, got=%+v", tc.out, s)
			}
		})
	}
}

func TestDecodeIQ(t *testing.T) {
	const in = `<iq type="result" id="sammy0"><bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"><jid> juliet@example.com/generated123 </jid></bind></iq>`
	s, err := stanza.Decode(parse(t, in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iq, ok := s.(stanza.IQ)
	if !ok {
		t.Fatalf("wrong stanza kind: %T", s)
	}
	if iq.Type != stanza.ResultIQ || iq.ID != "sammy0" {
		t.Errorf("wrong attributes: type=%q id=%q", iq.Type, iq.ID)
	}
	payload, ok := iq.Payload()
	if !ok {
		t.Fatal("expected a payload")
	}
	if payload.XMLName != (xml.Name{Space: ns.Bind, Local: "bind"}) {
		t.Errorf("wrong payload name: %v", payload.XMLName)
	}
	j, ok := payload.ChildText(xml.Name{Local: "jid"})
	if !ok || j != "juliet@example.com/generated123" {
		t.Errorf("wrong jid: %q (found=%t)", j, ok)
	}
	if _, ok := iq.StanzaError(); ok {
		t.Errorf("result iq should not report an error")
	}
}

func TestIQStanzaError(t *testing.T) {
	const in = `<iq type="error" id="x"><error type="cancel"><item-not-found xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"/><text xmlns="urn:ietf:params:xml:ns:xmpp-stanzas">gone fishing</text></error></iq>`
	s, err := stanza.Decode(parse(t, in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	se, ok := s.(stanza.IQ).StanzaError()
	if !ok {
		t.Fatal("expected a stanza error")
	}
	want := stanza.Error{Type: stanza.Cancel, Condition: stanza.ItemNotFound, Text: "gone fishing"}
	if se != want {
		t.Errorf("wrong error: want=%+v, got=%+v", want, se)
	}
	if se.Error() != "item-not-found: gone fishing" {
		t.Errorf("wrong error string: %q", se.Error())
	}
}

var decodeErrTests = [...]struct {
	in  string
	err error
}{
	0: {in: `<stream:features xmlns:stream="http://etherx.jabber.org/streams"/>`, err: stanza.ErrUnknownStanza},
	1: {in: `<iq xmlns="jabber:server" type="get"/>`, err: stanza.ErrUnknownStanza},
	2: {in: `<iq type="fetch"/>`, err: stanza.ErrBadType},
	3: {in: `<iq/>`, err: stanza.ErrBadType},
	4: {in: `<presence type="busy"/>`, err: stanza.ErrBadType},
	5: {in: `<message type="shout"/>`, err: stanza.ErrBadType},
	6: {in: `<message from="@example.net"/>`},
}

func TestDecodeErrors(t *testing.T) {
	for i, tc := range decodeErrTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := stanza.Decode(parse(t, tc.in))
			switch {
			case err == nil:
				t.Fatal("expected an error")
			case tc.err != nil && !errors.Is(err, tc.err):
				t.Errorf("wrong error: want=%v, got=%v", tc.err, err)
			}
		})
	}
}

func TestShowValid(t *testing.T) {
	for _, s := range []stanza.Show{stanza.ShowAway, stanza.ShowChat, stanza.ShowDND, stanza.ShowXA} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []stanza.Show{"", "AWAY", "online", " xa"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestElementTokenReader(t *testing.T) {
	el := parse(t, `<query xmlns="jabber:iq:roster" ver="1"/>`)
	out := encode(t, el.TokenReader())
	const want = `<query xmlns="jabber:iq:roster" ver="1"></query>`
	if out != want {
		t.Errorf("wrong output:\nwant=%s,\n got=%s", want, out)
	}
}
