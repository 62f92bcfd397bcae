// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"mellium.im/sasl"
	"mellium.im/xmlstream"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/internal/saslerr"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/stanza"
)

var (
	featuresName   = xml.Name{Space: ns.Stream, Local: "features"}
	mechanismsName = xml.Name{Space: ns.SASL, Local: "mechanisms"}
	successName    = xml.Name{Space: ns.SASL, Local: "success"}
	failureName    = xml.Name{Space: ns.SASL, Local: "failure"}
	bindName       = xml.Name{Space: ns.Bind, Local: "bind"}
)

// handshake negotiates the stream, authenticates with SASL PLAIN and binds a
// resource.
// It returns the full JID assigned by the server.
func (c *Conn) handshake(addr jid.JID, password string) (jid.JID, error) {
	domain := addr.Domain()

	if err := c.t.Open(addr, domain, c.cfg.Lang); err != nil {
		return jid.JID{}, &HandshakeError{Err: err}
	}
	c.state.fire(triggerOpen)

	features, err := c.readFeatures()
	if err != nil {
		return jid.JID{}, err
	}
	c.state.fire(triggerFeatures)

	if !offersPlain(features) {
		return jid.JID{}, &AuthError{Err: ErrUnsupportedMechanism}
	}
	if err := c.authenticate(addr, password); err != nil {
		return jid.JID{}, err
	}
	c.state.fire(triggerAuthenticated)

	// RFC 6120 §6.4.6: after a successful SASL negotiation both sides start a
	// new stream.
	if err := c.t.Open(addr, domain, c.cfg.Lang); err != nil {
		return jid.JID{}, &HandshakeError{Err: err}
	}
	if _, err := c.readFeatures(); err != nil {
		return jid.JID{}, err
	}

	local, err := c.bind()
	if err != nil {
		return jid.JID{}, err
	}
	c.state.fire(triggerBound)
	return local, nil
}

func (c *Conn) readFeatures() (stanza.Element, error) {
	el, err := c.t.ReadElement()
	if err != nil {
		return el, &HandshakeError{Err: fmt.Errorf("%w: %w", ErrNoFeatures, err)}
	}
	if el.XMLName != featuresName {
		return el, &HandshakeError{Err: fmt.Errorf("%w: got %s", ErrNoFeatures, el.XMLName.Local)}
	}
	return el, nil
}

func offersPlain(features stanza.Element) bool {
	mechanisms, ok := features.Child(mechanismsName)
	if !ok {
		return false
	}
	for _, m := range mechanisms.Children {
		if m.XMLName.Local == "mechanism" && strings.TrimSpace(m.Text) == sasl.Plain.Name {
			return true
		}
	}
	return false
}

func (c *Conn) authenticate(addr jid.JID, password string) error {
	client := sasl.NewClient(sasl.Plain, sasl.Credentials(func() (Username, Password, Identity []byte) {
		return []byte(addr.Localpart()), []byte(password), nil
	}))
	_, resp, err := client.Step(nil)
	if err != nil {
		return &AuthError{Err: err}
	}

	payload := base64.StdEncoding.EncodeToString(resp)
	err = c.t.WriteElement(xmlstream.Wrap(
		xmlstream.Token(xml.CharData(payload)),
		xml.StartElement{
			Name: xml.Name{Space: ns.SASL, Local: "auth"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "mechanism"}, Value: sasl.Plain.Name}},
		},
	))
	if err != nil {
		return &HandshakeError{Err: err}
	}

	el, err := c.t.ReadElement()
	if err != nil {
		return &HandshakeError{Err: err}
	}
	switch el.XMLName {
	case successName:
		return nil
	case failureName:
		tag, _ := language.Parse(c.cfg.Lang)
		f := saslerr.Decode(el, tag)
		return &AuthError{Reason: string(f.Condition), Err: f}
	}
	return &HandshakeError{Err: fmt.Errorf("unexpected %s element during authentication", el.XMLName.Local)}
}

func (c *Conn) bind() (jid.JID, error) {
	var resource xml.TokenReader
	if c.cfg.Resource != "" {
		resource = xmlstream.Wrap(
			xmlstream.Token(xml.CharData(c.cfg.Resource)),
			xml.StartElement{Name: xml.Name{Local: "resource"}},
		)
	}
	req := stanza.IQ{ID: c.ids.Next(), Type: stanza.SetIQ}
	err := c.t.WriteElement(req.Wrap(xmlstream.Wrap(
		resource,
		xml.StartElement{Name: bindName},
	)))
	if err != nil {
		return jid.JID{}, &HandshakeError{Err: err}
	}

	el, err := c.t.ReadElement()
	if err != nil {
		return jid.JID{}, &HandshakeError{Err: err}
	}
	s, err := stanza.Decode(el)
	if err != nil {
		return jid.JID{}, &BindError{Err: err}
	}
	resp, ok := s.(stanza.IQ)
	switch {
	case !ok:
		return jid.JID{}, &BindError{Err: fmt.Errorf("expected iq, got %s", el.XMLName.Local)}
	case resp.ID != req.ID:
		return jid.JID{}, &BindError{Err: fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)}
	case resp.Type == stanza.ErrorIQ:
		se, _ := resp.StanzaError()
		return jid.JID{}, &BindError{Err: se}
	case resp.Type != stanza.ResultIQ:
		return jid.JID{}, &BindError{Err: fmt.Errorf("unexpected iq type %q", resp.Type)}
	}

	payload, _ := resp.Payload()
	text, ok := payload.ChildText(xml.Name{Local: "jid"})
	if !ok || payload.XMLName != bindName {
		return jid.JID{}, &BindError{Err: errors.New("result carries no bound address")}
	}
	local, err := jid.Parse(text)
	if err != nil {
		return jid.JID{}, &BindError{Err: err}
	}
	return local, nil
}
