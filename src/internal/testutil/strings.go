// Package testutil holds small helpers shared by tests
package testutil

import "strings"

// ContainsSubstring reports whether s contains substr
func ContainsSubstring(s, substr string) bool {
	return strings.Contains(s, substr)
}
