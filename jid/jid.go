// Copyright 2014 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package jid

import (
	"encoding/xml"
	"errors"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/secure/precis"
)

// JID represents an XMPP address (Jabber ID) comprising a localpart,
// domainpart, and resourcepart. All parts of a JID are guaranteed to be valid
// UTF-8 and will be represented in their canonical form which gives comparison
// the greatest chance of succeeding.
//
// The zero value is the empty address.
type JID struct {
	locallen  int
	domainlen int
	data      string
}

// Parse constructs a new JID from the given string representation.
func Parse(s string) (JID, error) {
	localpart, domainpart, resourcepart, err := SplitString(s)
	if err != nil {
		return JID{}, err
	}
	return New(localpart, domainpart, resourcepart)
}

// MustParse is like Parse but panics if the JID cannot be parsed.
// It simplifies safe initialization of JIDs from known-good constant strings.
func MustParse(s string) JID {
	j, err := Parse(s)
	if err != nil {
		if strconv.CanBackquote(s) {
			s = "`" + s + "`"
		} else {
			s = strconv.Quote(s)
		}
		panic(`jid: Parse(` + s + `): ` + err.Error())
	}
	return j
}

// New constructs a new JID from the given localpart, domainpart, and
// resourcepart.
func New(localpart, domainpart, resourcepart string) (JID, error) {
	// Ensure that parts are valid UTF-8 (and short circuit the rest of the
	// process if they're not). We'll check the domainpart after performing
	// the IDNA ToUnicode operation.
	if !utf8.ValidString(localpart) || !utf8.ValidString(resourcepart) {
		return JID{}, errors.New("jid: contains invalid UTF-8")
	}

	// RFC 7622 §3.2.1.  Preparation
	//
	//    An entity that prepares a string for inclusion in an XMPP domainpart
	//    slot MUST ensure that the string consists only of Unicode code points
	//    that are allowed in NR-LDH labels or U-labels as defined in
	//    [RFC5890].  This implies that the string MUST NOT include A-labels as
	//    defined in [RFC5890]; each A-label MUST be converted to a U-label
	//    during preparation of a string for inclusion in a domainpart slot.
	domainpart, err := prepDomain(domainpart)
	if err != nil {
		return JID{}, err
	}

	if localpart != "" {
		localpart, err = precis.UsernameCaseMapped.String(localpart)
		if err != nil {
			return JID{}, err
		}
	}
	if resourcepart != "" {
		resourcepart, err = precis.OpaqueString.String(resourcepart)
		if err != nil {
			return JID{}, err
		}
	}

	if err := commonChecks(localpart, domainpart, resourcepart); err != nil {
		return JID{}, err
	}

	return JID{
		locallen:  len(localpart),
		domainlen: len(domainpart),
		data:      localpart + domainpart + resourcepart,
	}, nil
}

func prepDomain(domainpart string) (string, error) {
	if isIP6Literal(domainpart) || net.ParseIP(domainpart) != nil {
		return domainpart, nil
	}
	domainpart, err := idna.Lookup.ToUnicode(domainpart)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(domainpart) {
		return "", errors.New("jid: domainpart contains invalid UTF-8")
	}
	return domainpart, nil
}

// WithResource returns a copy of the JID with a new resourcepart.
// This elides validation of the localpart and domainpart.
// An empty resourcepart results in the bare JID.
func (j JID) WithResource(resourcepart string) (JID, error) {
	bare := j.Bare()
	if resourcepart == "" {
		return bare, nil
	}
	if !utf8.ValidString(resourcepart) {
		return JID{}, errors.New("jid: contains invalid UTF-8")
	}
	resourcepart, err := precis.OpaqueString.String(resourcepart)
	if err != nil {
		return JID{}, err
	}
	if len(resourcepart) > 1023 {
		return JID{}, errors.New("jid: the resourcepart must be smaller than 1024 bytes")
	}
	bare.data += resourcepart
	return bare, nil
}

// Bare returns a copy of the JID without a resourcepart. This is sometimes
// called a "bare" JID.
func (j JID) Bare() JID {
	return JID{
		locallen:  j.locallen,
		domainlen: j.domainlen,
		data:      j.data[:j.domainlen+j.locallen],
	}
}

// Domain returns a copy of the JID without a resourcepart or localpart.
func (j JID) Domain() JID {
	return JID{
		domainlen: j.domainlen,
		data:      j.data[j.locallen : j.domainlen+j.locallen],
	}
}

// Localpart gets the localpart of a JID (eg "username").
func (j JID) Localpart() string {
	return j.data[:j.locallen]
}

// Domainpart gets the domainpart of a JID (eg. "example.net").
func (j JID) Domainpart() string {
	return j.data[j.locallen : j.locallen+j.domainlen]
}

// Resourcepart gets the resourcepart of a JID.
func (j JID) Resourcepart() string {
	return j.data[j.locallen+j.domainlen:]
}

// IsBare reports whether the JID has no resourcepart.
func (j JID) IsBare() bool {
	return len(j.data) == j.locallen+j.domainlen
}

// IsZero reports whether j is the empty address.
func (j JID) IsZero() bool {
	return j.data == ""
}

// Network satisfies the net.Addr interface by returning the name of the network
// ("xmpp").
func (JID) Network() string {
	return "xmpp"
}

// String converts an JID to its string representation.
func (j JID) String() string {
	s := j.Domainpart()
	if j.locallen > 0 {
		s = j.Localpart() + "@" + s
	}
	if !j.IsBare() {
		s = s + "/" + j.Resourcepart()
	}
	return s
}

// Equal performs an octet-for-octet comparison with the given JID.
func (j JID) Equal(j2 JID) bool {
	return j == j2
}

// MarshalXML satisfies the xml.Marshaler interface and marshals the JID as
// XML chardata.
func (j JID) MarshalXML(e *xml.Encoder, start xml.StartElement) (err error) {
	if err = e.EncodeToken(start); err != nil {
		return
	}
	if err = e.EncodeToken(xml.CharData(j.String())); err != nil {
		return
	}
	if err = e.EncodeToken(start.End()); err != nil {
		return
	}
	return e.Flush()
}

// UnmarshalXML satisfies the xml.Unmarshaler interface and unmarshals the JID
// from the elements chardata.
func (j *JID) UnmarshalXML(d *xml.Decoder, start xml.StartElement) (err error) {
	data := struct {
		CharData string `xml:",chardata"`
	}{}
	if err = d.DecodeElement(&data, &start); err != nil {
		return
	}
	j2, err := Parse(strings.TrimSpace(data.CharData))
	if err == nil {
		*j = j2
	}
	return
}

// MarshalXMLAttr satisfies the xml.MarshalerAttr interface and marshals the JID
// as an XML attribute.
// The zero value results in no attribute.
func (j JID) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if j.IsZero() {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: j.String()}, nil
}

// UnmarshalXMLAttr satisfies the xml.UnmarshalerAttr interface and unmarshals
// an XML attribute into a valid JID (or returns an error).
func (j *JID) UnmarshalXMLAttr(attr xml.Attr) error {
	if attr.Value == "" {
		*j = JID{}
		return nil
	}
	j2, err := Parse(attr.Value)
	if err != nil {
		return err
	}
	*j = j2
	return nil
}

// SplitString splits out the localpart, domainpart, and resourcepart from a
// string representation of a JID. The parts are not guaranteed to be valid, and
// each part must be 1023 bytes or less.
func SplitString(s string) (localpart, domainpart, resourcepart string, err error) {
	// RFC 7622 §3.1.  Fundamentals:
	//
	//    Implementation Note: When dividing a JID into its component parts,
	//    an implementation needs to match the separator characters '@' and
	//    '/' before applying any transformation algorithms, which might
	//    decompose certain Unicode code points to the separator characters.
	//
	//    1.  Remove any portion from the first '/' character to the end of the
	//        string (if there is a '/' character present).
	sep := strings.Index(s, "/")

	if sep != -1 {
		// If the resource part exists, make sure it isn't empty.
		if sep == len(s)-1 {
			err = errors.New("jid: the resourcepart must be larger than 0 bytes")
			return
		}
		resourcepart = s[sep+1:]
		s = s[:sep]
	}

	//    2.  Remove any portion from the beginning of the string to the first
	//        '@' character (if there is an '@' character present).
	sep = strings.Index(s, "@")

	switch sep {
	case -1:
		domainpart = s
	case 0:
		err = errors.New("jid: the localpart must be larger than 0 bytes")
		return
	default:
		domainpart = s[sep+1:]
		localpart = s[:sep]
	}

	//    If the domainpart includes a final character considered to be a label
	//    separator (dot) by [RFC1034], this character MUST be stripped from
	//    the domainpart before the JID of which it is a part is used for the
	//    purpose of routing an XML stanza.
	domainpart = strings.TrimSuffix(domainpart, ".")

	return
}

func isIP6Literal(domainpart string) bool {
	l := len(domainpart)
	return l > 2 && strings.HasPrefix(domainpart, "[") && strings.HasSuffix(domainpart, "]")
}

func checkIP6String(domainpart string) error {
	if isIP6Literal(domainpart) {
		if ip := net.ParseIP(domainpart[1 : len(domainpart)-1]); ip == nil || ip.To4() != nil {
			return errors.New("jid: domainpart is not a valid IPv6 address")
		}
	}
	return nil
}

func commonChecks(localpart, domainpart, resourcepart string) error {
	if len(localpart) > 1023 {
		return errors.New("jid: the localpart must be smaller than 1024 bytes")
	}

	// RFC 7622 §3.3.1 provides a small table of characters which are still not
	// allowed in localpart's even though the IdentifierClass base class and the
	// UsernameCaseMapped profile don't forbid them; disallow them here.
	if strings.ContainsAny(localpart, `"&'/:<>@`) {
		return errors.New("jid: localpart contains forbidden characters")
	}

	if len(resourcepart) > 1023 {
		return errors.New("jid: the resourcepart must be smaller than 1024 bytes")
	}

	if l := len(domainpart); l < 1 || l > 1023 {
		return errors.New("jid: the domainpart must be between 1 and 1023 bytes")
	}

	return checkIP6String(domainpart)
}
