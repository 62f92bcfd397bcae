// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package imclient

import (
	"context"
	"errors"
	"time"

	"mellium.im/imclient/delay"
	"mellium.im/imclient/history"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/roster"
	"mellium.im/imclient/stanza"
)

// dispatch applies an inbound element to the contact directory and the
// history store and notifies listeners.
// It never writes to the stream.
func (c *Conn) dispatch(el stanza.Element) {
	s, err := stanza.Decode(el)
	switch {
	case errors.Is(err, stanza.ErrUnknownStanza):
		c.cfg.Debug.Printf("ignoring unknown element %s", el.XMLName.Local)
		return
	case err != nil:
		c.cfg.Logger.Printf("dropping malformed %s: %v", el.XMLName.Local, err)
		return
	}

	switch s := s.(type) {
	case stanza.IQ:
		c.handleIQ(s)
	case stanza.Presence:
		c.handlePresence(s)
	case stanza.Message:
		c.handleMessage(s, el)
	}
}

func (c *Conn) handleIQ(iq stanza.IQ) {
	switch iq.Type {
	case stanza.ErrorIQ:
		se, _ := iq.StanzaError()
		c.cfg.Logger.Printf("iq %s failed: %v", iq.ID, se)
		return
	case stanza.GetIQ:
		c.cfg.Debug.Printf("ignoring iq get %s from %s", iq.ID, iq.From)
		return
	}

	items, ok := roster.FromIQ(iq)
	if !ok {
		if len(iq.Children) > 0 {
			c.cfg.Debug.Printf("ignoring iq %s %s without roster payload", iq.Type, iq.ID)
		}
		return
	}
	// RFC 6121 §2.1.6: pushes from anyone but the user's own account are
	// ignored.
	if iq.Type == stanza.SetIQ && !iq.From.IsZero() && !iq.From.Bare().Equal(c.local.Bare()) {
		c.cfg.Logger.Printf("ignoring roster push from %s", iq.From)
		return
	}

	for _, item := range items {
		switch {
		case item.Subscription == roster.Remove:
			if removed, ok := c.cfg.Roster.Remove(item.JID); ok {
				c.contactRemoved(removed)
			}
		case item.Tracked():
			if c.cfg.Roster.Add(item) {
				c.contactAdded(item)
			}
		}
	}
}

func (c *Conn) handlePresence(p stanza.Presence) {
	contact := p.From.Bare()
	resource := p.From.Resourcepart()

	if p.Type == stanza.SubscribePresence {
		c.subscriptionRequested(contact)
		return
	}
	if !c.cfg.Roster.Contains(contact) {
		c.cfg.Debug.Printf("ignoring presence from unknown contact %s", p.From)
		return
	}

	switch p.Type {
	case stanza.AvailablePresence:
		status, ok := roster.StatusFromPresence(p)
		if !ok {
			c.cfg.Logger.Printf("ignoring presence from %s with invalid show %q", p.From, p.Show)
			return
		}
		c.setStatus(contact, resource, status)
	case stanza.UnavailablePresence:
		c.setStatus(contact, resource, roster.Offline)
	case stanza.UnsubscribePresence:
		if removed, ok := c.cfg.Roster.Remove(contact); ok {
			c.contactRemoved(removed)
		}
	default:
		c.cfg.Debug.Printf("ignoring %s presence from %s", p.Type, p.From)
	}
}

func (c *Conn) setStatus(contact jid.JID, resource string, status roster.Status) {
	if !c.cfg.Roster.SetStatus(contact, resource, status) {
		return
	}
	c.presenceUpdated(roster.PresenceUpdate{
		JID:      contact,
		Resource: resource,
		Status:   status,
	})
}

func (c *Conn) handleMessage(msg stanza.Message, el stanza.Element) {
	if msg.Type != stanza.ChatMessage || msg.Body == "" {
		return
	}
	contact := msg.From.Bare()
	resource := msg.From.Resourcepart()
	if !c.cfg.Roster.Contains(contact) {
		c.cfg.Debug.Printf("dropping message from unknown sender %s", msg.From)
		return
	}

	c.cfg.Roster.Seen(contact, resource)
	sent := time.Now()
	if d, ok := delay.Find(el); ok {
		sent = d.Time
	}
	err := c.cfg.History.Append(context.Background(), history.Message{
		ID:       msg.ID,
		Contact:  contact,
		Resource: resource,
		Body:     msg.Body,
		Incoming: true,
		Time:     sent,
	})
	if err != nil {
		c.cfg.Logger.Printf("recording message from %s: %v", msg.From, err)
	}
	c.messageReceived(contact, resource, msg.Body)
}
