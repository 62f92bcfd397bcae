// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package roster

import (
	"mellium.im/imclient/jid"
	"mellium.im/imclient/stanza"
)

//go:generate go run -tags=tools golang.org/x/tools/cmd/stringer -type=Status -linecomment

// Status is the availability of a contact's resource or of the user.
type Status uint8

// A list of possible statuses.
const (
	Offline   Status = iota // offline
	Available               // available
	Away                    // away
	Chat                    // chat
	DND                     // dnd
	XA                      // xa
)

// PresenceUpdate is a change in the availability of one of a contact's
// resources.
type PresenceUpdate struct {
	JID      jid.JID
	Resource string
	Status   Status
}

// StatusFromShow maps the show child of an available presence to a status.
// An empty show means Available.
// If show is not one of the values defined by RFC 6121 ok is false.
func StatusFromShow(show stanza.Show) (s Status, ok bool) {
	switch show {
	case "":
		return Available, true
	case stanza.ShowAway:
		return Away, true
	case stanza.ShowChat:
		return Chat, true
	case stanza.ShowDND:
		return DND, true
	case stanza.ShowXA:
		return XA, true
	}
	return Offline, false
}

// StatusFromPresence maps an available presence to a status.
// Unlike StatusFromShow a show child that is present but empty is not valid.
func StatusFromPresence(p stanza.Presence) (s Status, ok bool) {
	if p.HasShow && p.Show == "" {
		return Offline, false
	}
	return StatusFromShow(p.Show)
}

// Presence returns the presence that announces the status.
// Offline maps to unavailable presence, Available to a presence without show.
func (s Status) Presence(text string) stanza.Presence {
	p := stanza.Presence{Status: text}
	switch s {
	case Offline:
		p.Type = stanza.UnavailablePresence
	case Away:
		p.Show = stanza.ShowAway
	case Chat:
		p.Show = stanza.ShowChat
	case DND:
		p.Show = stanza.ShowDND
	case XA:
		p.Show = stanza.ShowXA
	}
	return p
}
