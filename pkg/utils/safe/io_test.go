package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trio/pkg/utils/logging"
	"github.com/secmon-lab/trio/pkg/utils/safe"
)

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false))

	safe.Close(ctx, nil)
	gt.Value(t, buf.Len()).Equal(0)

	safe.Close(ctx, failingCloser{})
	gt.String(t, buf.String()).Contains("close failed")
}

func TestWrite(t *testing.T) {
	var logBuf bytes.Buffer
	ctx := logging.With(context.Background(), logging.New(&logBuf, slog.LevelInfo, logging.FormatJSON, false))

	var out bytes.Buffer
	safe.Write(ctx, &out, []byte("hello"))
	gt.Value(t, out.String()).Equal("hello")

	safe.Write(ctx, nil, []byte("ignored"))
	safe.Write(ctx, failingWriter{}, []byte("x"))
	gt.String(t, logBuf.String()).Contains("write failed")
}

func TestWrite_Short(t *testing.T) {
	var logBuf bytes.Buffer
	ctx := logging.With(context.Background(), logging.New(&logBuf, slog.LevelInfo, logging.FormatJSON, false))

	safe.Write(ctx, shortWriter{}, []byte("four"))
	gt.String(t, logBuf.String()).Contains("Short write")
	gt.String(t, logBuf.String()).Contains(`"written":2`)
}
