package cli

import (
	"context"
	"io"
)

// RunWithOutput runs the CLI writing command output to out
func RunWithOutput(ctx context.Context, args []string, out io.Writer) error {
	return run(ctx, args, "test", out)
}
