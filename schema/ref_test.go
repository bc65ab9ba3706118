package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref      string
		file     string
		fragment string
		local    bool
		remote   bool
	}{
		{ref: "#/$defs/Identifier", file: "", fragment: "/$defs/Identifier", local: true},
		{ref: "../detail/schema.yaml", file: "../detail/schema.yaml"},
		{ref: "../detail/schema.yaml#/$defs/Id", file: "../detail/schema.yaml", fragment: "/$defs/Id"},
		{ref: "https://example.org/schema.json", file: "https://example.org/schema.json", remote: true},
		{ref: "https://example.org/schema.json#/x", file: "https://example.org/schema.json", fragment: "/x", remote: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r := ParseRef(tt.ref)
			assert.Equal(t, tt.file, r.File)
			assert.Equal(t, tt.fragment, r.Fragment)
			assert.Equal(t, tt.local, r.IsLocal())
			assert.Equal(t, tt.remote, r.IsRemote())
			assert.Equal(t, tt.ref, r.String())
		})
	}
}

func TestRefString(t *testing.T) {
	withRef, err := ParseBytes([]byte(`{"$ref": "#/$defs/X", "description": "d"}`))
	assert.NoError(t, err)

	ref, ok := RefString(withRef)
	assert.True(t, ok)
	assert.Equal(t, "#/$defs/X", ref)

	_, ok = RefString(Str("not an object"))
	assert.False(t, ok)

	noRef := NewObject()
	_, ok = RefString(noRef)
	assert.False(t, ok)
}
