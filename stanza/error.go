// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"strings"

	"mellium.im/imclient/internal/ns"
)

// ErrorType is the type of a stanza error payload.
// It should normally be one of the constants defined in this package.
type ErrorType string

const (
	// Cancel indicates that the error cannot be remedied and the operation
	// should not be retried.
	Cancel ErrorType = "cancel"

	// Auth indicates that an operation should be retried after providing
	// credentials.
	Auth ErrorType = "auth"

	// Continue indicates that the operation can proceed (the condition was
	// only a warning).
	Continue ErrorType = "continue"

	// Modify indicates that the operation can be retried after changing the
	// data sent.
	Modify ErrorType = "modify"

	// Wait indicates that an error is temporary and may be retried.
	Wait ErrorType = "wait"
)

// Condition represents a more specific stanza error condition that can be
// encapsulated by an <error/> element.
type Condition string

// A list of stanza error conditions defined in RFC 6120 §8.3.3
const (
	BadRequest            Condition = "bad-request"
	Conflict              Condition = "conflict"
	FeatureNotImplemented Condition = "feature-not-implemented"
	Forbidden             Condition = "forbidden"
	Gone                  Condition = "gone"
	InternalServerError   Condition = "internal-server-error"
	ItemNotFound          Condition = "item-not-found"
	JIDMalformed          Condition = "jid-malformed"
	NotAcceptable         Condition = "not-acceptable"
	NotAllowed            Condition = "not-allowed"
	NotAuthorized         Condition = "not-authorized"
	PolicyViolation       Condition = "policy-violation"
	RecipientUnavailable  Condition = "recipient-unavailable"
	Redirect              Condition = "redirect"
	RegistrationRequired  Condition = "registration-required"
	RemoteServerNotFound  Condition = "remote-server-not-found"
	RemoteServerTimeout   Condition = "remote-server-timeout"
	ResourceConstraint    Condition = "resource-constraint"
	ServiceUnavailable    Condition = "service-unavailable"
	SubscriptionRequired  Condition = "subscription-required"
	UndefinedCondition    Condition = "undefined-condition"
	UnexpectedRequest     Condition = "unexpected-request"
)

// Error is a stanza level error as carried in an <error/> child.
type Error struct {
	Type      ErrorType
	Condition Condition
	Text      string
}

// Error satisfies the error interface by returning the condition and the
// human readable text if any.
func (se Error) Error() string {
	if se.Condition == "" {
		return "stanza: error of type " + string(se.Type)
	}
	if se.Text == "" {
		return string(se.Condition)
	}
	return string(se.Condition) + ": " + se.Text
}

func decodeError(el Element) Error {
	se := Error{Type: ErrorType(el.Attribute("type"))}
	for _, c := range el.Children {
		if c.XMLName.Space != ns.Stanza {
			continue
		}
		if c.XMLName.Local == "text" {
			se.Text = strings.TrimSpace(c.Text)
			continue
		}
		if se.Condition == "" {
			se.Condition = Condition(c.XMLName.Local)
		}
	}
	return se
}
