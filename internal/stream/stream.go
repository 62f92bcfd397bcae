// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package stream implements the client side of an XML stream: it opens and
// restarts the stream, reads and writes whole top level elements, and closes
// the stream.
package stream // import "mellium.im/imclient/internal/stream"

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mellium.im/xmlstream"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/stanza"
)

// XMLHeader is an XML header like the one in encoding/xml but without a
// newline at the end.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// Info contains metadata extracted from the peer's stream header.
type Info struct {
	ID      string
	From    jid.JID
	Version Version
	Lang    string
}

// Transport reads and writes top level elements of an XML stream.
//
// Reads must not be performed concurrently with other reads, and writes must
// not be performed concurrently with other writes. A read and a write may
// happen at the same time.
type Transport struct {
	rwc io.ReadWriteCloser
	r   *bufio.Reader
	w   io.Writer
	d   *xml.Decoder

	info      Info
	header    bool
	complete  atomic.Bool
	outClosed atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// New returns a transport over rwc.
// Everything read from rwc is also written to teeIn and everything written to
// rwc is also written to teeOut. Either may be nil.
func New(rwc io.ReadWriteCloser, teeIn, teeOut io.Writer) *Transport {
	var r io.Reader = rwc
	if teeIn != nil {
		r = io.TeeReader(rwc, teeIn)
	}
	var w io.Writer = rwc
	if teeOut != nil {
		w = io.MultiWriter(rwc, teeOut)
	}
	t := &Transport{
		rwc: rwc,
		r:   bufio.NewReader(r),
		w:   w,
	}
	t.d = xml.NewDecoder(t.r)
	return t
}

// Open sends a new XML header followed by a stream start element.
// It is also used to restart the stream after authentication, in which case
// the input side is reset to expect a new stream header from the peer.
//
// We don't use an xml.Encoder both because Go's standard library xml package
// really doesn't like the namespaced stream:stream attribute and because we
// can guarantee well-formedness of the XML with a print in this case.
func (t *Transport) Open(from, to jid.JID, lang string) error {
	// The decoder reads through a bufio.Reader (an io.ByteReader) so it does
	// not buffer on its own and replacing it drops no input.
	t.d = xml.NewDecoder(t.r)
	t.header = false
	t.info = Info{}

	b := bufio.NewWriter(t.w)
	_, err := fmt.Fprintf(b,
		XMLHeader+`<stream:stream from='%s' to='%s' version='%s' `,
		from.Bare(),
		to.Domain(),
		DefaultVersion,
	)
	if err != nil {
		return err
	}
	if lang != "" {
		if _, err = b.WriteString("xml:lang='"); err != nil {
			return err
		}
		if err = xml.EscapeText(b, []byte(lang)); err != nil {
			return err
		}
		if _, err = b.WriteString("' "); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(b, `xmlns='%s' xmlns:stream='%s'>`, ns.Client, ns.Stream)
	if err != nil {
		return err
	}
	return b.Flush()
}

// Info returns the metadata of the peer's most recent stream header.
// It is only valid after the first element following Open has been read.
func (t *Transport) Info() Info {
	return t.info
}

// ReadElement reads the next top level element of the stream.
// The peer's stream header and any whitespace between elements are consumed
// silently.
// When the peer closes its stream ReadElement returns io.EOF and Complete
// starts reporting true.
// If the peer sends a stream error it is returned as an Error.
// Other elements in the stream namespace, features included, are returned
// like any other element.
func (t *Transport) ReadElement() (stanza.Element, error) {
	for {
		tok, err := t.d.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return stanza.Element{}, err
		}
		switch tok := tok.(type) {
		case xml.ProcInst:
			// XML declaration
			continue
		case xml.CharData:
			if len(strings.TrimSpace(string(tok))) != 0 {
				return stanza.Element{}, ErrRestrictedXML
			}
			continue
		case xml.EndElement:
			if tok.Name.Space == ns.Stream && tok.Name.Local == "stream" {
				t.complete.Store(true)
				return stanza.Element{}, io.EOF
			}
			return stanza.Element{}, fmt.Errorf("stream: unexpected end element %s", tok.Name.Local)
		case xml.StartElement:
			if tok.Name.Space == ns.Stream {
				switch tok.Name.Local {
				case "stream":
					if t.header {
						return stanza.Element{}, ErrUnexpectedRestart
					}
					if err := t.readHeader(tok); err != nil {
						return stanza.Element{}, err
					}
					continue
				case "error":
					var el stanza.Element
					if err := t.d.DecodeElement(&el, &tok); err != nil {
						return stanza.Element{}, err
					}
					return stanza.Element{}, decodeError(el)
				}
			}
			var el stanza.Element
			if err := t.d.DecodeElement(&el, &tok); err != nil {
				return stanza.Element{}, err
			}
			return el, nil
		default:
			return stanza.Element{}, ErrRestrictedXML
		}
	}
}

func (t *Transport) readHeader(start xml.StartElement) error {
	t.header = true
	info := Info{Version: DefaultVersion}
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			info.ID = a.Value
		case a.Name.Space == "" && a.Name.Local == "from":
			// A bad from address is not worth failing the stream over.
			_ = info.From.UnmarshalXMLAttr(a)
		case a.Name.Space == "" && a.Name.Local == "version":
			v, err := ParseVersion(a.Value)
			if err != nil || v != DefaultVersion {
				return UnsupportedVersion
			}
			info.Version = v
		case a.Name.Local == "lang" && (a.Name.Space == ns.XML || a.Name.Space == "xml"):
			info.Lang = a.Value
		}
	}
	t.info = info
	return nil
}

// WriteElement encodes a single top level element.
func (t *Transport) WriteElement(r xml.TokenReader) error {
	if t.outClosed.Load() {
		return ErrOutputClosed
	}
	e := xml.NewEncoder(t.w)
	if _, err := xmlstream.Copy(e, r); err != nil {
		return err
	}
	return e.Flush()
}

// CloseStream sends the closing tag of the stream.
// No further elements may be written afterwards.
func (t *Transport) CloseStream() error {
	if t.outClosed.Swap(true) {
		return ErrOutputClosed
	}
	_, err := io.WriteString(t.w, `</stream:stream>`)
	return err
}

// Complete reports whether the peer has closed its stream.
func (t *Transport) Complete() bool {
	return t.complete.Load()
}

// OutputClosed reports whether CloseStream has been called.
func (t *Transport) OutputClosed() bool {
	return t.outClosed.Load()
}

// SetDeadline sets the read and write deadline of the underlying connection
// if it supports deadlines.
func (t *Transport) SetDeadline(deadline time.Time) error {
	if conn, ok := t.rwc.(interface{ SetDeadline(time.Time) error }); ok {
		return conn.SetDeadline(deadline)
	}
	return nil
}

// Close closes the underlying connection.
// Calling it multiple times has no effect and returns the first result.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.rwc.Close()
	})
	return t.closeErr
}
