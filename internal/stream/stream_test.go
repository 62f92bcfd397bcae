// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stream_test

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"mellium.im/xmlstream"

	"mellium.im/imclient/internal/stream"
	"mellium.im/imclient/jid"
)

const serverHeader = `<?xml version='1.0'?><stream:stream xmlns='jabber:client' xmlns:stream='http://etherx.jabber.org/streams' id='c2s1' from='example.com' version='1.0' xml:lang='en'>`

type conn struct {
	io.Reader
	strings.Builder
	closed int
}

func (c *conn) Close() error {
	c.closed++
	return nil
}

func TestOpen(t *testing.T) {
	c := &conn{Reader: strings.NewReader("")}
	tr := stream.New(c, nil, nil)
	err := tr.Open(jid.MustParse("juliet@example.com/balcony"), jid.MustParse("example.com"), "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = `<?xml version="1.0" encoding="UTF-8"?><stream:stream from='juliet@example.com' to='example.com' version='1.0' xml:lang='en' xmlns='jabber:client' xmlns:stream='http://etherx.jabber.org/streams'>`
	if out := c.String(); out != want {
		t.Errorf("wrong header:\nwant=%s,\n got=%s", want, out)
	}
}

func TestReadElement(t *testing.T) {
	c := &conn{Reader: strings.NewReader(serverHeader + `
  <stream:features><mechanisms xmlns='urn:ietf:params:xml:ns:xmpp-sasl'><mechanism>PLAIN</mechanism></mechanisms></stream:features>
  <iq type='result' id='sammy0'/>
</stream:stream>`)}
	tr := stream.New(c, nil, nil)

	el, err := tr.ReadElement()
	if err != nil {
		t.Fatalf("unexpected error reading features: %v", err)
	}
	if el.XMLName.Local != "features" {
		t.Errorf("wrong element: %v", el.XMLName)
	}
	if info := tr.Info(); info.ID != "c2s1" || info.Lang != "en" || info.From.String() != "example.com" {
		t.Errorf("wrong stream info: %+v", info)
	}

	el, err = tr.ReadElement()
	if err != nil {
		t.Fatalf("unexpected error reading iq: %v", err)
	}
	if el.XMLName.Local != "iq" || el.Attribute("id") != "sammy0" {
		t.Errorf("wrong element: %+v", el)
	}
	if tr.Complete() {
		t.Error("stream should not be complete yet")
	}

	_, err = tr.ReadElement()
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if !tr.Complete() {
		t.Error("stream should be complete after the closing tag")
	}
}

func TestRestart(t *testing.T) {
	c := &conn{Reader: strings.NewReader(serverHeader + `<success xmlns='urn:ietf:params:xml:ns:xmpp-sasl'/>` +
		serverHeader + `<stream:features/>`)}
	tr := stream.New(c, nil, nil)
	if _, err := tr.ReadElement(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.ReadElement(); err != stream.ErrUnexpectedRestart {
		t.Fatalf("expected an unexpected restart error without Open, got %v", err)
	}

	c = &conn{Reader: strings.NewReader(serverHeader + `<success xmlns='urn:ietf:params:xml:ns:xmpp-sasl'/>` +
		serverHeader + `<stream:features/>`)}
	tr = stream.New(c, nil, nil)
	if _, err := tr.ReadElement(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Open(jid.MustParse("juliet@example.com"), jid.MustParse("example.com"), ""); err != nil {
		t.Fatalf("error restarting: %v", err)
	}
	el, err := tr.ReadElement()
	if err != nil {
		t.Fatalf("unexpected error after restart: %v", err)
	}
	if el.XMLName.Local != "features" {
		t.Errorf("wrong element after restart: %v", el.XMLName)
	}
}

var readErrTests = [...]struct {
	in  string
	err error
}{
	0: {
		in:  serverHeader + `<stream:error><host-unknown xmlns='urn:ietf:params:xml:ns:xmpp-streams'/><text xmlns='urn:ietf:params:xml:ns:xmpp-streams'>who?</text></stream:error>`,
		err: stream.Error{Condition: "host-unknown", Text: "who?"},
	},
	1: {
		in:  `<stream:stream xmlns='jabber:client' xmlns:stream='http://etherx.jabber.org/streams' version='2.0'>`,
		err: stream.UnsupportedVersion,
	},
	2: {
		in:  serverHeader + `hello`,
		err: stream.ErrRestrictedXML,
	},
	3: {
		in:  serverHeader + `<!-- comment -->`,
		err: stream.ErrRestrictedXML,
	},
}

func TestReadErrors(t *testing.T) {
	for i, tc := range readErrTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			tr := stream.New(&conn{Reader: strings.NewReader(tc.in)}, nil, nil)
			_, err := tr.ReadElement()
			if !errors.Is(err, tc.err) {
				t.Errorf("wrong error: want=%v, got=%v", tc.err, err)
			}
		})
	}
}

func TestUnknownStreamElement(t *testing.T) {
	tr := stream.New(&conn{Reader: strings.NewReader(serverHeader + `<stream:unknown a='b'/><iq type='get' id='1'/>`)}, nil, nil)
	el, err := tr.ReadElement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := xml.Name{Space: "http://etherx.jabber.org/streams", Local: "unknown"}
	if el.XMLName != want || el.Attribute("a") != "b" {
		t.Errorf("wrong element: %+v", el)
	}
	el, err = tr.ReadElement()
	if err != nil {
		t.Fatalf("unexpected error reading the next element: %v", err)
	}
	if el.XMLName.Local != "iq" {
		t.Errorf("wrong element after unknown element: %v", el.XMLName)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	tr := stream.New(&conn{Reader: strings.NewReader("")}, nil, nil)
	if _, err := tr.ReadElement(); err != io.ErrUnexpectedEOF {
		t.Errorf("wrong error: want=%v, got=%v", io.ErrUnexpectedEOF, err)
	}
	if tr.Complete() {
		t.Error("a dropped connection should not mark the stream complete")
	}
}

func TestWriteAndClose(t *testing.T) {
	c := &conn{Reader: strings.NewReader("")}
	var teeOut strings.Builder
	tr := stream.New(c, nil, &teeOut)
	err := tr.WriteElement(xmlstream.Wrap(nil, xml.StartElement{Name: xml.Name{Local: "presence"}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.OutputClosed() {
		t.Fatal("output closed before the closing tag was sent")
	}
	if err := tr.CloseStream(); err != nil {
		t.Fatalf("unexpected error closing stream: %v", err)
	}
	if !tr.OutputClosed() {
		t.Error("output not reported closed after the closing tag was sent")
	}
	if err := tr.CloseStream(); err != stream.ErrOutputClosed {
		t.Errorf("expected second close to fail with %v, got %v", stream.ErrOutputClosed, err)
	}
	err = tr.WriteElement(xmlstream.Wrap(nil, xml.StartElement{Name: xml.Name{Local: "presence"}}))
	if err != stream.ErrOutputClosed {
		t.Errorf("expected write after close to fail with %v, got %v", stream.ErrOutputClosed, err)
	}
	const want = `<presence></presence></stream:stream>`
	if out := c.String(); out != want {
		t.Errorf("wrong output: want=%s, got=%s", want, out)
	}
	if out := teeOut.String(); out != want {
		t.Errorf("wrong tee output: want=%s, got=%s", want, out)
	}

	tr.Close()
	tr.Close()
	if c.closed != 1 {
		t.Errorf("expected underlying connection to be closed once, got %d", c.closed)
	}
}

func TestTeeIn(t *testing.T) {
	const in = serverHeader + `<stream:features/>`
	var teeIn strings.Builder
	tr := stream.New(&conn{Reader: strings.NewReader(in)}, &teeIn, nil)
	if _, err := tr.ReadElement(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if teeIn.String() != in {
		t.Errorf("wrong tee input: want=%s, got=%s", in, teeIn.String())
	}
}

func TestParseVersion(t *testing.T) {
	for i, tc := range [...]struct {
		in  string
		v   stream.Version
		err bool
	}{
		0: {in: "1.0", v: stream.Version{Major: 1}},
		1: {in: "2.11", v: stream.Version{Major: 2, Minor: 11}},
		2: {in: "1.0.0", err: true},
		3: {in: "A.1", err: true},
		4: {in: "1.a", err: true},
		5: {in: "", err: true},
	} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			v, err := stream.ParseVersion(tc.in)
			switch {
			case tc.err && err == nil:
				t.Errorf("expected %q to fail", tc.in)
			case !tc.err && err != nil:
				t.Errorf("unexpected error: %v", err)
			case v != tc.v:
				t.Errorf("wrong version: want=%v, got=%v", tc.v, v)
			}
		})
	}
}
