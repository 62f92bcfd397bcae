// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package attr contains unexported functionality related to XML attributes.
package attr // import "mellium.im/imclient/internal/attr"

import (
	"encoding/xml"
)

// Get returns the value of the first attribute with the provided local name
// from a list of attributes and its index, or -1 and an empty string if no such
// attribute exists.
// Only attributes in the empty namespace are considered.
func Get(attr []xml.Attr, local string) (int, string) {
	for i, a := range attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return i, a.Value
		}
	}
	return -1, ""
}
