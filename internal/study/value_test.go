// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStudy = `{
  "protocolSection": {
    "identificationModule": {"nctId": "NCT00000001", "briefTitle": "Trial A"},
    "conditionsModule": {"conditions": ["Condition A", "Condition B"]},
    "designModule": {"enrollmentInfo": {"count": 120}}
  },
  "hasResults": false,
  "score": 1.5,
  "note": null
}`

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"a": `))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err, "trailing document should be rejected")
}

func TestLookup(t *testing.T) {
	s := MustParse(sampleStudy)

	tests := []struct {
		name   string
		path   string
		wantOK bool
		want   string
	}{
		{"nested string", "protocolSection.identificationModule.nctId", true, "NCT00000001"},
		{"nested number", "protocolSection.designModule.enrollmentInfo.count", true, "120"},
		{"top-level bool", "hasResults", true, "false"},
		{"missing leaf", "protocolSection.identificationModule.officialTitle", false, ""},
		{"missing branch", "derivedSection.miscInfoModule.versionHolder", false, ""},
		{"walks through scalar", "protocolSection.identificationModule.nctId.extra", false, ""},
		{"walks through array", "protocolSection.conditionsModule.conditions.0", false, ""},
		{"empty segment", "protocolSection..identificationModule", false, ""},
		{"empty path", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Lookup(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.True(t, got.IsNull(), "failed lookup must not return a partial value")
				return
			}
			text, _ := got.Text()
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestLookupNullLeafResolves(t *testing.T) {
	s := MustParse(sampleStudy)
	v, ok := s.Lookup("note")
	assert.True(t, ok, "present null key still resolves")
	assert.Equal(t, KindNull, v.Kind())
}

func TestLookupOnNonObjectRoot(t *testing.T) {
	for _, root := range []Value{{}, MustParse(`[1,2]`), MustParse(`"text"`)} {
		_, ok := root.Lookup("a.b")
		assert.False(t, ok)
	}
}

func TestFirstSkipsEmptyCandidates(t *testing.T) {
	s := MustParse(`{"a": {"list": [], "name": "", "gone": null}, "b": ["x"]}`)

	v, ok := s.First([]string{"missing", "a.gone", "a.list", "a.name", "b"})
	require.True(t, ok)
	assert.Len(t, v.Items(), 1)

	_, ok = s.First([]string{"a.list", "a.name"})
	assert.False(t, ok)

	_, ok = s.First(nil)
	assert.False(t, ok)
}

func TestKinds(t *testing.T) {
	s := MustParse(sampleStudy)
	conds, _ := s.Lookup("protocolSection.conditionsModule.conditions")
	assert.Equal(t, KindArray, conds.Kind())
	require.Len(t, conds.Items(), 2)
	first, ok := conds.Items()[0].Str()
	assert.True(t, ok)
	assert.Equal(t, "Condition A", first)

	mod, _ := s.Lookup("protocolSection.identificationModule")
	assert.Equal(t, KindObject, mod.Kind())
	assert.Nil(t, mod.Items())

	assert.Equal(t, KindNumber, From(3).Kind())
	assert.Equal(t, KindNumber, From(3.5).Kind())
	assert.Equal(t, KindString, From("x").Kind())
	assert.Equal(t, KindNull, From(nil).Kind())
}

func TestIntAndFloat(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		wantInt int
		wantOK  bool
	}{
		{"json integer", MustParse(`2010`), 2010, true},
		{"json integral float", MustParse(`2010.0`), 2010, true},
		{"json fraction", MustParse(`1.5`), 0, false},
		{"go int", From(42), 42, true},
		{"go float", From(7.0), 7, true},
		{"string", From("2010"), 0, false},
		{"bool", From(true), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Int()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantInt, got)
		})
	}

	f, ok := MustParse(`30.44`).Float()
	require.True(t, ok)
	assert.InDelta(t, 30.44, f, 1e-9)
}

func TestTextAndCompact(t *testing.T) {
	text, ok := From(1.25).Text()
	assert.True(t, ok)
	assert.Equal(t, "1.25", text)

	_, ok = MustParse(`{"a":1}`).Text()
	assert.False(t, ok)

	assert.Equal(t, `{"a":1,"b":"x"}`, MustParse(`{"b":"x","a":1}`).Compact())
}

func TestUnmarshalJSONKeepsNumbers(t *testing.T) {
	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte(`{"n": 12345678901}`)))
	n, ok := v.Lookup("n")
	require.True(t, ok)
	i, ok := n.Int()
	assert.True(t, ok)
	assert.Equal(t, 12345678901, i)
}
