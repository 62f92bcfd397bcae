// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package attr

import (
	"strconv"
	"sync/atomic"
)

// DefaultPrefix is the prefix used by a Counter created with an empty prefix.
const DefaultPrefix = "sammy"

// Counter generates stanza identifiers made of a fixed prefix followed by a
// monotonically increasing integer starting at zero.
// It is safe for concurrent use and its zero value uses DefaultPrefix.
type Counter struct {
	prefix string
	n      atomic.Uint64
}

// NewCounter returns a counter that prefixes every identifier with prefix.
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// Next returns the next identifier.
func (c *Counter) Next() string {
	prefix := c.prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	n := c.n.Add(1) - 1
	return prefix + strconv.FormatUint(n, 10)
}
