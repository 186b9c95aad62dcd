/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package syncdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{name: "null", val: Null{}, want: `null`},
		{name: "nil", val: nil, want: `null`},
		{name: "bool", val: Bool(true), want: `true`},
		{name: "integer", val: Number(42), want: `42`},
		{name: "negative fraction", val: Number(-0.5), want: `-0.5`},
		{name: "large integer", val: Number(1e20), want: `100000000000000000000`},
		{name: "huge number", val: Number(1e21), want: `1e+21`},
		{name: "tiny number", val: Number(1e-7), want: `1e-7`},
		{name: "NaN", val: Number(math.NaN()), want: `null`},
		{name: "string escapes", val: String("a\"b\\c\n\t\x01"), want: `"a\"b\\c\n\t\u0001"`},
		{name: "html is not escaped", val: String("<a href='x'>&</a>"), want: `"<a href='x'>&</a>"`},
		{name: "unicode", val: String("navio ⚓"), want: `"navio ⚓"`},
		{
			name: "object keys are sorted at every level",
			val: Object{
				"vessel": String("Aurora"),
				"crew":   Array{Object{"role": String("master"), "name": String("Ana")}},
				"imo":    Number(9321483),
			},
			want: `{"crew":[{"name":"Ana","role":"master"}],"imo":9321483,"vessel":"Aurora"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.val)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(data))
		})
	}
}

func TestParse(t *testing.T) {
	val, err := Parse([]byte(`{"b":[1,"x",null,true],"a":{"c":2.5}}`))
	require.NoError(t, err)
	require.Equal(t, Object{
		"a": Object{"c": Number(2.5)},
		"b": Array{Number(1), String("x"), Null{}, Bool(true)},
	}, val)

	require.Equal(t, `{"a":{"c":2.5},"b":[1,"x",null,true]}`, string(MustMarshal(val)))

	_, err = Parse([]byte(`{"a":`))
	require.Error(t, err)

	_, err = Parse([]byte(`{} {}`))
	require.Error(t, err)
}

func TestFromAny(t *testing.T) {
	type inspection struct {
		Vessel  string   `json:"vessel"`
		Score   int      `json:"score"`
		Tags    []string `json:"tags"`
		private string
	}

	tests := []struct {
		name string
		in   interface{}
		want Value
	}{
		{name: "nil", in: nil, want: Null{}},
		{name: "int", in: 7, want: Number(7)},
		{name: "uint8", in: uint8(200), want: Number(200)},
		{name: "float32", in: float32(1.5), want: Number(1.5)},
		{name: "map", in: map[string]interface{}{"a": 1, "b": []interface{}{"x", false}},
			want: Object{"a": Number(1), "b": Array{String("x"), Bool(false)}}},
		{name: "raw json", in: []byte(`[1,2]`), want: Array{Number(1), Number(2)}},
		{name: "struct", in: inspection{Vessel: "Aurora", Score: 9, Tags: []string{"hull"}, private: "x"},
			want: Object{"vessel": String("Aurora"), "score": Number(9), "tags": Array{String("hull")}}},
		{name: "value passthrough", in: String("x"), want: String("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := FromAny(make(chan int))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestToAny(t *testing.T) {
	val := Object{"a": Array{Number(1), Null{}}, "b": Bool(true), "c": String("x")}
	require.Equal(t, map[string]interface{}{
		"a": []interface{}{float64(1), nil},
		"b": true,
		"c": "x",
	}, ToAny(val))
}
