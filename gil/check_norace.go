//go:build !race

package gil

const checkedBuild = false
