package timetable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want interface{}
	}{
		{name: "json", src: `{"a": [1, 2.5, -3], "b": null, "c": true}`, want: map[string]interface{}{
			"a": []interface{}{float64(1), 2.5, float64(-3)},
			"b": nil,
			"c": true,
		}},
		{name: "identifier keys and single quotes", src: `{title: 'Turma', $x: 1, _y: 'a"b'}`, want: map[string]interface{}{
			"title": "Turma",
			"$x":    float64(1),
			"_y":    `a"b`,
		}},
		{name: "trailing commas", src: `{a: [1, 2,], b: {c: 3,},}`, want: map[string]interface{}{
			"a": []interface{}{float64(1), float64(2)},
			"b": map[string]interface{}{"c": float64(3)},
		}},
		{name: "comments", src: "{\n  // line\n  a: 1, /* block */ b: 2\n}", want: map[string]interface{}{
			"a": float64(1),
			"b": float64(2),
		}},
		{name: "numbers", src: `[0x1F, 0b101, 0o17, .5, +2, 1e3, 1_000, -Infinity]`, want: []interface{}{
			float64(31), float64(5), float64(15), 0.5, float64(2), float64(1000), float64(1000), math.Inf(-1),
		}},
		{name: "backtick string", src: "{a: `multi\nline`}", want: map[string]interface{}{"a": "multi\nline"}},
		{name: "escapes", src: `["a\tb", "\u00e7\u00e3o", "\x41", 'it\'s', "\u{1F600}"]`, want: []interface{}{
			"a\tb", "ção", "A", "it's", "😀",
		}},
		{name: "undefined", src: `{a: undefined}`, want: map[string]interface{}{"a": nil}},
		{name: "numeric and quoted keys", src: `{1: 'x', "b c": 'y'}`, want: map[string]interface{}{"1": "x", "b c": "y"}},
		{name: "unicode text", src: `{dayName: 'Terça', subject: 'Programação'}`, want: map[string]interface{}{
			"dayName": "Terça",
			"subject": "Programação",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiteral(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteral_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: ``},
		{name: "function call", src: `{a: foo()}`},
		{name: "reference", src: `{a: data}`},
		{name: "spread", src: `{...other}`},
		{name: "computed key", src: `{[k]: 1}`},
		{name: "interpolation", src: "{a: `${x}`}"},
		{name: "unterminated string", src: `{a: "x}`},
		{name: "unterminated comment", src: `{a: 1 /* }`},
		{name: "missing colon", src: `{a 1}`},
		{name: "trailing garbage", src: `{a: 1} x`},
		{name: "newline in string", src: "{a: 'x\ny'}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiteral(tt.src)
			assert.ErrorIs(t, err, ErrParseFailure)
		})
	}
}
