package errutil_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trio/pkg/utils/errutil"
	"github.com/secmon-lab/trio/pkg/utils/logging"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false))

	t.Run("nil error", func(t *testing.T) {
		gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))
		gt.Value(t, buf.Len()).Equal(0)
	})

	t.Run("goerr values are logged", func(t *testing.T) {
		base := errors.New("disk full")
		err := goerr.Wrap(base, "failed to save", goerr.V("location", "/tmp/trio.json"))

		got := errutil.Handle(ctx, err, "command failed")
		gt.Value(t, got).Equal(err)
		gt.String(t, buf.String()).Contains("command failed")
		gt.String(t, buf.String()).Contains("/tmp/trio.json")
	})

	t.Run("plain error", func(t *testing.T) {
		buf.Reset()
		err := errors.New("plain")
		gt.Error(t, errutil.Handle(ctx, err, "plain failure")).Is(err)
		gt.String(t, buf.String()).Contains("plain failure")
	})
}
