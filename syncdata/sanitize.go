/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package syncdata

import (
	"strings"
	"unicode/utf8"
)

// MaxStringLength is the number of characters strings are truncated to by SanitizeForSync.
const MaxStringLength = 10000

// SanitizeForSync returns a copy of v ready to be sent to the remote side:
// object keys starting with "_" or "$" are dropped at every level,
// strings are trimmed and truncated to MaxStringLength characters.
// Other values are returned unchanged.
func SanitizeForSync(v Value) Value {
	switch tv := v.(type) {
	case String:
		return String(truncate(strings.TrimSpace(string(tv)), MaxStringLength))
	case Array:
		res := make(Array, len(tv))
		for i, elem := range tv {
			res[i] = SanitizeForSync(elem)
		}
		return res
	case Object:
		res := make(Object, len(tv))
		for k, elem := range tv {
			if strings.HasPrefix(k, "_") || strings.HasPrefix(k, "$") {
				continue
			}
			res[k] = SanitizeForSync(elem)
		}
		return res
	}
	return v
}

func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
