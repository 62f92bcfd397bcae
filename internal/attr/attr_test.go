// Copyright 2019 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package attr_test

import (
	"encoding/xml"
	"strconv"
	"testing"

	"mellium.im/imclient/internal/attr"
)

var (
	idAttr   = xml.Attr{Name: xml.Name{Local: "id"}, Value: "sammy0"}
	typeAttr = xml.Attr{Name: xml.Name{Local: "type"}, Value: "chat"}
	langAttr = xml.Attr{Name: xml.Name{Space: "http://www.w3.org/XML/1998/namespace", Local: "lang"}, Value: "en"}
)

var getTests = [...]struct {
	attr  []xml.Attr
	local string
	val   string
	idx   int
}{
	0: {local: "id", idx: -1},
	1: {attr: []xml.Attr{}, local: "type", idx: -1},
	2: {attr: []xml.Attr{idAttr, typeAttr}, local: "id", val: "sammy0"},
	3: {attr: []xml.Attr{idAttr, typeAttr}, local: "type", val: "chat", idx: 1},
	4: {attr: []xml.Attr{idAttr, typeAttr}, local: "to", idx: -1},
	// xml:lang is namespaced and must not match a bare "lang" lookup.
	5: {attr: []xml.Attr{langAttr, idAttr}, local: "lang", idx: -1},
	6: {
		attr:  []xml.Attr{langAttr, {Name: xml.Name{Local: "lang"}, Value: "fr"}},
		local: "lang",
		val:   "fr",
		idx:   1,
	},
	7: {
		attr:  []xml.Attr{typeAttr, {Name: xml.Name{Local: "type"}, Value: "error"}},
		local: "type",
		val:   "chat",
	},
}

func TestGet(t *testing.T) {
	for i, tc := range getTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			idx, val := attr.Get(tc.attr, tc.local)
			if val != tc.val {
				t.Errorf("wrong value: want=%q, got=%q", tc.val, val)
			}
			if idx != tc.idx {
				t.Errorf("wrong index: want=%d, got=%d", tc.idx, idx)
			}
		})
	}
}
