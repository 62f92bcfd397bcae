// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package saslerr provides error conditions for the XMPP profile of SASL as
// defined by RFC 6120 §6.5.
package saslerr // import "mellium.im/imclient/internal/saslerr"

import (
	"strings"

	"golang.org/x/text/language"

	"mellium.im/imclient/internal/ns"
	"mellium.im/imclient/stanza"
)

// Condition represents a SASL error condition that can be encapsulated by a
// <failure/> element.
type Condition string

// Standard SASL error conditions.
const (
	Aborted              Condition = "aborted"
	AccountDisabled      Condition = "account-disabled"
	CredentialsExpired   Condition = "credentials-expired"
	EncryptionRequired   Condition = "encryption-required"
	IncorrectEncoding    Condition = "incorrect-encoding"
	InvalidAuthzID       Condition = "invalid-authzid"
	InvalidMechanism     Condition = "invalid-mechanism"
	MalformedRequest     Condition = "malformed-request"
	MechanismTooWeak     Condition = "mechanism-too-weak"
	NotAuthorized        Condition = "not-authorized"
	TemporaryAuthFailure Condition = "temporary-auth-failure"
)

// Failure represents a SASL failure sent by the server.
type Failure struct {
	Condition Condition
	Lang      language.Tag
	Text      string
}

// Error satisfies the error interface for a Failure. It returns the condition
// followed by the text if set.
func (f Failure) Error() string {
	if f.Text != "" {
		return string(f.Condition) + ": " + f.Text
	}
	return string(f.Condition)
}

// Decode extracts the failure from a <failure/> element.
// The condition is the name of the first child element.
// If multiple text elements are present, Decode selects the one with an
// xml:lang attribute that most closely matches lang; text elements without an
// xml:lang attribute are treated as "und".
func Decode(el stanza.Element, lang language.Tag) Failure {
	var f Failure
	if c, ok := el.FirstChild(); ok {
		f.Condition = Condition(c.XMLName.Local)
	}

	var tags []language.Tag
	data := make(map[language.Tag]string)
	for _, c := range el.Children {
		if c.XMLName.Local != "text" || (c.XMLName.Space != "" && c.XMLName.Space != ns.SASL) {
			continue
		}
		tag, ok := textLang(c)
		if !ok {
			continue
		}
		if _, ok := data[tag]; !ok {
			tags = append(tags, tag)
		}
		data[tag] = strings.TrimSpace(c.Text)
	}
	if len(tags) == 0 {
		return f
	}
	tag, idx, _ := language.NewMatcher(tags).Match(lang)
	f.Lang = tag
	f.Text = data[tags[idx]]
	return f
}

// textLang returns the language of a text element, skipping any tags that
// cannot be parsed.
func textLang(el stanza.Element) (language.Tag, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == "lang" && (a.Name.Space == ns.XML || a.Name.Space == "xml") {
			tag, err := language.Parse(a.Value)
			return tag, err == nil
		}
	}
	return language.Und, true
}
