package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/codec"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/repository/file"
	"github.com/secmon-lab/trio/pkg/usecase"
	"github.com/secmon-lab/trio/pkg/utils/logging"
	"github.com/secmon-lab/trio/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdOptimize(e *env) *cli.Command {
	return &cli.Command{
		Name:   "optimize",
		Usage:  "Drop entries whose id already appeared earlier in scan order",
		Action: dictionaryAction(e, runOptimize[int64], runOptimize[string]),
	}
}

func runOptimize[K types.Identifier](ctx context.Context, _ *cli.Command, s *session[K]) (bool, error) {
	removed := s.dict.Optimize(ctx)
	printLine(ctx, s.out, "%s %d", okColor.Sprint("removed duplicates:"), removed)
	return removed > 0, nil
}

func cmdClear(e *env) *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Remove every entry",
		Action: dictionaryAction(e, runClear[int64], runClear[string]),
	}
}

func runClear[K types.Identifier](ctx context.Context, _ *cli.Command, s *session[K]) (bool, error) {
	size := s.dict.Store().Len()
	s.dict.Store().Clear()
	printLine(ctx, s.out, "%s %d", okColor.Sprint("cleared entries:"), size)
	return size > 0, nil
}

func cmdExport(e *env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the encoded dictionary to stdout or a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination file. Stdout when omitted",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Format of the exported text (list, map). The dictionary format when omitted",
			},
		},
		Action: dictionaryAction(e, runExport[int64], runExport[string]),
	}
}

func runExport[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	cd := s.dict.Codec()
	if to := c.String("to"); to != "" {
		format, err := types.ParseFormat(to)
		if err != nil {
			return false, goerr.Wrap(errInvalidArgument, err.Error(), goerr.V(argumentKey, "to"), goerr.V(valueKey, to))
		}
		if cd, err = codec.New[K](format); err != nil {
			return false, err
		}
	}

	data, err := cd.Encode(s.dict.Store().Entries())
	if err != nil {
		return false, err
	}

	output := c.String("output")
	if output == "" || output == "-" {
		safe.Write(ctx, s.out, append(data, '\n'))
		return false, nil
	}

	dst, err := file.New(output)
	if err != nil {
		return false, err
	}
	defer safe.Close(ctx, dst)

	if err := dst.Save(ctx, data); err != nil {
		return false, err
	}
	logging.From(ctx).Info("dictionary exported", "output", dst.Location(), "format", cd.Format(), "bytes", len(data))
	return false, nil
}

func cmdImport(e *env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Merge entries from an encoded file. Either shape is accepted",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Replace the whole dictionary instead of merging",
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "Merge with concurrent inserts. The order of imported entries is then not kept",
			},
		},
		Action: dictionaryAction(e, runImport[int64], runImport[string]),
	}
}

func runImport[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	path, err := requireArg(c, 0, "path")
	if err != nil {
		return false, err
	}

	src, err := file.New(path)
	if err != nil {
		return false, err
	}
	defer safe.Close(ctx, src)

	data, err := src.Load(ctx)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, goerr.Wrap(model.ErrIO, "import source does not exist", goerr.V(model.LocationKey, path))
	}

	format, err := codec.Detect(data, s.dict.Codec().Format())
	if err != nil {
		return false, goerr.Wrap(err, "failed to read import source", goerr.V(model.LocationKey, path))
	}
	cd, err := codec.New[K](format)
	if err != nil {
		return false, err
	}
	records, err := cd.Decode(data)
	if err != nil {
		return false, goerr.Wrap(err, "failed to decode import source", goerr.V(model.LocationKey, path))
	}

	if c.Bool("replace") {
		dropped := s.dict.Store().Restore(records)
		printLine(ctx, s.out, "%s %d (duplicates dropped: %d)", okColor.Sprint("imported entries:"), s.dict.Store().Len(), dropped)
		return true, nil
	}

	var inserted int
	if c.Bool("parallel") {
		entries := make([]usecase.Entry[K], 0, len(records))
		for _, r := range records {
			entries = append(entries, usecase.Entry[K]{
				ID:          r.ID(),
				Description: r.Description(),
				Briefing:    r.Briefing(),
			})
		}
		inserted, err = s.dict.BatchInsert(ctx, entries)
	} else {
		inserted, err = s.dict.Merge(ctx, records)
	}
	if err != nil {
		return inserted > 0, err
	}
	printLine(ctx, s.out, "%s %d (skipped: %d)", okColor.Sprint("imported entries:"), inserted, len(records)-inserted)
	return inserted > 0, nil
}
