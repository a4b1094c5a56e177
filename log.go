//go:build !ios && !android && (amd64 || arm64)

package pygo

import (
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/pygo/gil"
	"github.com/obinnaokechukwu/pygo/internal/bindings"
)

// SetLogger installs a zap logger for pygo's internal diagnostics
// (library loading, interpreter bootstrap, deferred-queue drains).
// Logging is off by default; pass nil to turn it off again.
func SetLogger(l *zap.Logger) {
	gil.SetLogger(l)
	bindings.SetLogger(l)
}
