// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package roster

import (
	"sort"
	"sync"

	"mellium.im/imclient/jid"
)

type contact struct {
	item      Item
	resources map[string]Status
	last      string
}

// List is an in-memory contact directory keyed by bare JID.
// It is safe for concurrent use and the zero value is ready to use.
type List struct {
	mu       sync.RWMutex
	contacts map[jid.JID]*contact
}

// Add inserts item unless a contact with the same bare JID already exists.
// It reports whether the item was added.
func (l *List) Add(item Item) bool {
	item.JID = item.JID.Bare()
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.contacts[item.JID]; ok {
		return false
	}
	if l.contacts == nil {
		l.contacts = make(map[jid.JID]*contact)
	}
	l.contacts[item.JID] = &contact{item: item, resources: make(map[string]Status)}
	return true
}

// Remove deletes the contact with the bare form of j and returns its item.
func (l *List) Remove(j jid.JID) (Item, bool) {
	j = j.Bare()
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contacts[j]
	if !ok {
		return Item{}, false
	}
	delete(l.contacts, j)
	return c.item, true
}

// Get returns the item stored for the bare form of j.
func (l *List) Get(j jid.JID) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contacts[j.Bare()]
	if !ok {
		return Item{}, false
	}
	return c.item, true
}

// Contains reports whether the bare form of j is in the list.
func (l *List) Contains(j jid.JID) bool {
	_, ok := l.Get(j)
	return ok
}

// Len returns the number of contacts.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.contacts)
}

// Items returns all items ordered by JID.
func (l *List) Items() []Item {
	l.mu.RLock()
	items := make([]Item, 0, len(l.contacts))
	for _, c := range l.contacts {
		items = append(items, c.item)
	}
	l.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool {
		return items[i].JID.String() < items[j].JID.String()
	})
	return items
}

// SetStatus records the status of one of the contact's resources.
// An available resource becomes the contact's last seen resource, an offline
// one stops being it.
// SetStatus reports false if the contact is unknown.
func (l *List) SetStatus(j jid.JID, resource string, s Status) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contacts[j.Bare()]
	if !ok {
		return false
	}
	if s == Offline {
		delete(c.resources, resource)
		if c.last == resource {
			c.last = ""
		}
		return true
	}
	c.resources[resource] = s
	if resource != "" {
		c.last = resource
	}
	return true
}

// Seen marks resource as the contact's most recently observed resource.
// It reports false if the contact is unknown.
func (l *List) Seen(j jid.JID, resource string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contacts[j.Bare()]
	if !ok {
		return false
	}
	if resource != "" {
		c.last = resource
	}
	return true
}

// Status returns the status of the contact's last seen resource, or of the
// contact's bare JID if no resource has been seen.
func (l *List) Status(j jid.JID) Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contacts[j.Bare()]
	if !ok {
		return Offline
	}
	return c.resources[c.last]
}

// ResourceStatus returns the status of a single resource.
func (l *List) ResourceStatus(j jid.JID, resource string) Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contacts[j.Bare()]
	if !ok {
		return Offline
	}
	return c.resources[resource]
}

// LastResource returns the most recently observed resource of the contact or
// the empty string if none is known.
func (l *List) LastResource(j jid.JID) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contacts[j.Bare()]
	if !ok {
		return ""
	}
	return c.last
}
