// Package safe holds helpers for cleanup and output calls whose errors can
// only be logged.
package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/trio/pkg/utils/logging"
)

// Close closes c and logs a failure. A nil c is ignored, so it can be
// deferred right after a constructor that may have failed.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs a failure or a short write. Command
// output goes through it, where there is no caller left to return to.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
		return
	}
	if n < len(data) {
		logging.From(ctx).Error("Short write", slog.Int("written", n), slog.Int("size", len(data)))
	}
}
