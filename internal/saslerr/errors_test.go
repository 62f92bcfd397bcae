// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package saslerr_test

import (
	"encoding/xml"
	"strconv"
	"testing"

	"golang.org/x/text/language"

	"mellium.im/imclient/internal/saslerr"
	"mellium.im/imclient/stanza"
)

var _ error = saslerr.Failure{}

var decodeTests = [...]struct {
	in   string
	lang language.Tag
	out  saslerr.Failure
}{
	0: {
		in:  `<failure xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><not-authorized/></failure>`,
		out: saslerr.Failure{Condition: saslerr.NotAuthorized},
	},
	1: {
		in:   `<failure xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><account-disabled/><text xml:lang="en">Call 212-555-1212 for help.</text></failure>`,
		lang: language.English,
		out:  saslerr.Failure{Condition: saslerr.AccountDisabled, Lang: language.English, Text: "Call 212-555-1212 for help."},
	},
	2: {
		in:   `<failure xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><aborted/><text xml:lang="en">Bye</text><text xml:lang="de">Tschüss</text></failure>`,
		lang: language.German,
		out:  saslerr.Failure{Condition: saslerr.Aborted, Lang: language.German, Text: "Tschüss"},
	},
	3: {
		in:  `<failure xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><custom-reason/><text>no</text></failure>`,
		out: saslerr.Failure{Condition: "custom-reason", Lang: language.Und, Text: "no"},
	},
	4: {
		in:  `<failure xmlns="urn:ietf:params:xml:ns:xmpp-sasl"/>`,
		out: saslerr.Failure{},
	},
}

func TestDecode(t *testing.T) {
	for i, tc := range decodeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var el stanza.Element
			if err := xml.Unmarshal([]byte(tc.in), &el); err != nil {
				t.Fatalf("error unmarshaling: %v", err)
			}
			f := saslerr.Decode(el, tc.lang)
			if f.Condition != tc.out.Condition || f.Text != tc.out.Text {
				t.Errorf("wrong failure: want=%+v, got=%+v", tc.out, f)
			}
			if tc.out.Text != "" && f.Lang != tc.out.Lang {
				t.Errorf("wrong language: want=%v, got=%v", tc.out.Lang, f.Lang)
			}
		})
	}
}

func TestError(t *testing.T) {
	f := saslerr.Failure{Condition: saslerr.MechanismTooWeak}
	if s := f.Error(); s != "mechanism-too-weak" {
		t.Errorf("wrong error string: %q", s)
	}
	f.Text = "Test"
	if s := f.Error(); s != "mechanism-too-weak: Test" {
		t.Errorf("wrong error string: %q", s)
	}
}
