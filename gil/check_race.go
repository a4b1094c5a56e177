//go:build race

package gil

// checkedBuild enables internal invariant panics when the race detector
// is on; release builds tolerate the condition silently instead.
const checkedBuild = true
