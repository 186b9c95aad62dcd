/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nautilus-one/synckit/syncdata"
)

func TestGenerateChecksum(t *testing.T) {
	tests := []struct {
		name       string
		value      syncdata.Value
		wantSimple string
		wantCRC32  string
	}{
		{
			name:       "object",
			value:      syncdata.Object{"a": syncdata.Number(1)},
			wantSimple: "aa0a79fe",
			wantCRC32:  "561bacaf",
		},
		{
			name:       "null",
			value:      syncdata.Null{},
			wantSimple: "0033c587",
			wantCRC32:  "25cbfc4f",
		},
		{
			name:       "non-ascii string",
			value:      syncdata.String("héllo 🚢"),
			wantSimple: "4c5dc789",
			wantCRC32:  "cc8d34d8",
		},
		{
			name: "keys are sorted",
			value: syncdata.Object{
				"tags": syncdata.Array{syncdata.String("x"), syncdata.String("y")},
				"name": syncdata.String("Aurora"),
				"id":   syncdata.Number(7),
			},
			wantSimple: "fad54c8d",
			wantCRC32:  "3e5218af",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantSimple, GenerateChecksum(tt.value, AlgorithmSimple))
			require.Equal(t, tt.wantCRC32, GenerateChecksum(tt.value, AlgorithmCRC32))
		})
	}
}

func TestGenerateChecksumDeterminismAndSensitivity(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmSimple, AlgorithmCRC32} {
		t.Run(string(alg), func(t *testing.T) {
			x := syncdata.Object{"a": syncdata.Number(1), "b": syncdata.Array{syncdata.Bool(true), syncdata.Null{}}}
			first := GenerateChecksum(x, alg)
			require.Len(t, first, 8)
			require.Equal(t, first, GenerateChecksum(x, alg))

			require.NotEqual(t,
				GenerateChecksum(syncdata.Object{"a": syncdata.Number(1)}, alg),
				GenerateChecksum(syncdata.Object{"a": syncdata.Number(2)}, alg))
		})
	}
}

func TestGenerateChecksumUnknownAlgorithm(t *testing.T) {
	v := syncdata.Object{"a": syncdata.Number(1)}
	require.Equal(t, GenerateChecksum(v, AlgorithmSimple), GenerateChecksum(v, "md5"))
}
