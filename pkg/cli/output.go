package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/utils/safe"
)

var (
	idColor    = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	labelColor = color.New(color.Faint)
)

func printLine(ctx context.Context, w io.Writer, format string, args ...any) {
	safe.Write(ctx, w, []byte(fmt.Sprintf(format, args...)+"\n"))
}

// printRecords writes one record per line in the Entry{...} form
func printRecords[K types.Identifier](ctx context.Context, w io.Writer, records model.Records[K]) {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.String())
		b.WriteString("\n")
	}
	safe.Write(ctx, w, []byte(b.String()))
}

func printIDs[K types.Identifier](ctx context.Context, w io.Writer, ids []K) {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(types.FormatID(id))
		b.WriteString("\n")
	}
	safe.Write(ctx, w, []byte(b.String()))
}

// printRecord writes a single record as labelled fields
func printRecord[K types.Identifier](ctx context.Context, w io.Writer, r *model.Record[K]) {
	printLine(ctx, w, "%s %s", labelColor.Sprint("id:         "), idColor.Sprint(types.FormatID(r.ID())))
	printLine(ctx, w, "%s %s", labelColor.Sprint("description:"), r.Description())
	printLine(ctx, w, "%s %s", labelColor.Sprint("briefing:   "), r.Briefing())
}

func printDone[K types.Identifier](ctx context.Context, w io.Writer, action string, id K) {
	printLine(ctx, w, "%s %s", okColor.Sprint(action), idColor.Sprint(types.FormatID(id)))
}

func printSkipped[K types.Identifier](ctx context.Context, w io.Writer, reason string, id K) {
	printLine(ctx, w, "%s %s: %s", warnColor.Sprint("skipped"), idColor.Sprint(types.FormatID(id)), reason)
}
