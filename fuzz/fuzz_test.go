package fuzz

import (
	"testing"

	"github.com/willabides/yamlschema"
)

// testData seeds the corpus with documents exercising scalars, flow and
// block sequences, nested mappings, anchors/aliases, tags, and
// malformed/binary input — trimmed from the
// teacher's own round-trip fuzz corpus down to the shapes relevant to a
// mapping-shaped schema.
var testData = []string{
	`{}`,
	`a: hi`,
	`a: true`,
	`a: 10`,
	`a: 0b10`,
	`a: 0xA`,
	`a: 4294967296`,
	`a: -10`,
	`123`,
	`a: ~`,
	`a: null`,
	`~: null key`,
	"xs: [1,2]",
	"xs: [1,2,3,]",
	"xs:\n - 1\n - 2",
	"outer: {inner: 9}",
	"outer: {inner: 9, extra: 1}",
	"a: 2147483647",
	"a: -2147483648",
	"a: 9223372036854775808",
	"a: -9223372036854775809",
	"a: !!int '1'",
	"a: &x 1\nb: *x\n",
	"a: &a {inner: 1}\nb: *a",
	"---\nhello\n...\n}not yaml",
	"a: b\r\nc:\r\n- d\r\n- e\r\n",
	"\n0:\n<<:\n  {}:\n",
	"ys: [a, bb, ccc]",
	"ys: []",
	"ys: ['', '']",
}

// innerSchema and schema below form a fixed shape with a scalar field, a
// nested owning-pointer mapping, an owning-pointer sequence of scalars, and
// an owning-pointer sequence of STRING (the growth-delta special case in
// placement.go's growElement). It has no UINT, BOOL, ENUM or
// SEQUENCE_FIXED field.
var innerSchema = &yamlschema.Schema{
	Kind: yamlschema.Mapping,
	Size: 4,
	Fields: []yamlschema.Field{
		{Key: "inner", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Int, Size: 4}},
	},
}

// layout: a (8 bytes @0), outer ptr (8 bytes @8), xs ptr (8 bytes @16),
// xs's count field (4 bytes @24), ys ptr (8 bytes @32), ys's count field
// (4 bytes @40) — 44 bytes total.
var schema = &yamlschema.Schema{
	Kind: yamlschema.Mapping,
	Size: 44,
	Fields: []yamlschema.Field{
		{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Int, Size: 8}},
		{
			Key:    "outer",
			Offset: 8,
			Schema: &yamlschema.Schema{Kind: yamlschema.Mapping, Size: innerSchema.Size, Flags: yamlschema.OwningPointer, Fields: innerSchema.Fields},
		},
		{
			Key:    "xs",
			Offset: 16,
			Schema: &yamlschema.Schema{
				Kind:        yamlschema.Sequence,
				Flags:       yamlschema.OwningPointer,
				Element:     &yamlschema.Schema{Kind: yamlschema.Int, Size: 2},
				CountOffset: 24,
				CountSize:   4,
			},
		},
		{
			Key:    "ys",
			Offset: 32,
			Schema: &yamlschema.Schema{
				Kind:        yamlschema.Sequence,
				Flags:       yamlschema.OwningPointer,
				Element:     &yamlschema.Schema{Kind: yamlschema.String, Flags: yamlschema.OwningPointer},
				CountOffset: 40,
				CountSize:   4,
			},
		},
	},
}

func FuzzLoad(f *testing.F) {
	for _, s := range testData {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		tree, err := yamlschema.LoadBytes(schema, []byte(s), nil)
		if err != nil {
			return
		}
		defer tree.Free()
	})
}
