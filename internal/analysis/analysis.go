// Package analysis derives layer statistics, extents, measurements and
// preview geometry from a parsed drawing.
//
// Every function here is pure with respect to its input: it reads a
// *domain.Drawing, never writes to it, and keeps no state between calls,
// so all of them are safe for concurrent use. A nil drawing is the only
// fatal condition (domain.ErrNoModel). Problems with individual entities
// are logged and the entity is left out of the affected result.
package analysis

import (
	"log/slog"
	"sync/atomic"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used to report skipped entities.
// Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func checkDrawing(d *domain.Drawing) error {
	if d == nil {
		return domain.ErrNoModel
	}
	return nil
}
