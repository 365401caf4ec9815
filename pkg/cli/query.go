package cli

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/repository/memory"
	"github.com/secmon-lab/trio/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSearch(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find entries whose description or briefing contains a keyword",
		ArgsUsage: "<keyword>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "field",
				Usage: "Field to match (any, description, briefing). Only ids are printed for a single field",
				Value: "any",
			},
		},
		Action: dictionaryAction(e, runSearch[int64], runSearch[string]),
	}
}

func runSearch[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	keyword, err := requireArg(c, 0, "keyword")
	if err != nil {
		return false, err
	}

	store := s.dict.Store()
	switch field := c.String("field"); field {
	case "any":
		printRecords(ctx, s.out, store.SearchByKeyword(keyword))
	case "description":
		printIDs(ctx, s.out, store.SearchByDescription(keyword))
	case "briefing":
		printIDs(ctx, s.out, store.SearchByBriefing(keyword))
	default:
		return false, goerr.Wrap(errInvalidArgument, "unknown field", goerr.V(argumentKey, "field"), goerr.V(valueKey, field))
	}
	return false, nil
}

func cmdPrefix(e *env) *cli.Command {
	return &cli.Command{
		Name:      "prefix",
		Usage:     "List ids whose description or briefing starts with a prefix",
		ArgsUsage: "<prefix>",
		Action:    dictionaryAction(e, runPrefix[int64], runPrefix[string]),
	}
}

func runPrefix[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	prefix, err := requireArg(c, 0, "prefix")
	if err != nil {
		return false, err
	}
	printIDs(ctx, s.out, s.dict.Store().FindIDsByPrefix(prefix))
	return false, nil
}

func cmdClosest(e *env) *cli.Command {
	return &cli.Command{
		Name:      "closest",
		Usage:     "Show the id numerically closest to a target (int key type only)",
		ArgsUsage: "<target>",
		Action:    dictionaryAction(e, runClosest, rejectStringKey),
	}
}

func runClosest(ctx context.Context, c *cli.Command, s *session[int64]) (bool, error) {
	target, err := parseArgID[int64](c, 0, "target")
	if err != nil {
		return false, err
	}

	id, ok := memory.FindClosestID(s.dict.Store(), target)
	if !ok {
		return false, goerr.Wrap(model.ErrEmpty, "dictionary has no entries")
	}
	printIDs(ctx, s.out, []int64{id})
	return false, nil
}

func rejectStringKey(_ context.Context, c *cli.Command, _ *session[string]) (bool, error) {
	return false, goerr.Wrap(errIntegerKeyOnly, "command is not available for string keys", goerr.V("command", c.Name))
}

func cmdIDs(e *env) *cli.Command {
	return &cli.Command{
		Name:  "ids",
		Usage: "List all ids",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "order",
				Usage: "Order of the ids (scan, asc, desc)",
				Value: "scan",
			},
		},
		Action: dictionaryAction(e, runIDs[int64], runIDs[string]),
	}
}

func runIDs[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	store := s.dict.Store()
	switch order := c.String("order"); order {
	case "scan":
		printIDs(ctx, s.out, store.IDs())
	case "asc":
		printIDs(ctx, s.out, store.SortedIDs(true))
	case "desc":
		printIDs(ctx, s.out, store.SortedIDs(false))
	default:
		return false, goerr.Wrap(errInvalidArgument, "unknown order", goerr.V(argumentKey, "order"), goerr.V(valueKey, order))
	}
	return false, nil
}

func cmdSort(e *env) *cli.Command {
	return &cli.Command{
		Name:  "sort",
		Usage: "List entries sorted by a field",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "by",
				Usage: "Sort key (id, description, briefing)",
				Value: "id",
			},
		},
		Action: dictionaryAction(e, runSort[int64], runSort[string]),
	}
}

func runSort[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	store := s.dict.Store()
	switch by := c.String("by"); by {
	case "id":
		printRecords(ctx, s.out, store.SortByID())
	case "description":
		printRecords(ctx, s.out, store.SortByDescription())
	case "briefing":
		printRecords(ctx, s.out, store.SortByBriefing())
	default:
		return false, goerr.Wrap(errInvalidArgument, "unknown sort key", goerr.V(argumentKey, "by"), goerr.V(valueKey, by))
	}
	return false, nil
}

func cmdRandom(e *env) *cli.Command {
	return &cli.Command{
		Name:   "random",
		Usage:  "Show a randomly picked entry",
		Action: dictionaryAction(e, runRandom[int64], runRandom[string]),
	}
}

func runRandom[K types.Identifier](ctx context.Context, _ *cli.Command, s *session[K]) (bool, error) {
	r, err := s.dict.Store().RandomEntry()
	if err != nil {
		return false, err
	}
	printRecords(ctx, s.out, model.Records[K]{r})
	return false, nil
}

func cmdList(e *env) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List all entries in scan order",
		Action:  dictionaryAction(e, runList[int64], runList[string]),
	}
}

func runList[K types.Identifier](ctx context.Context, _ *cli.Command, s *session[K]) (bool, error) {
	printRecords(ctx, s.out, s.dict.Store().Entries())
	return false, nil
}

type stats struct {
	KeyType  types.KeyType `json:"key_type"`
	Format   types.Format  `json:"format"`
	Location string        `json:"location"`
	Size     int           `json:"size"`
	Empty    bool          `json:"empty"`
}

func cmdStats(e *env) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show dictionary statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print as JSON",
			},
		},
		Action: dictionaryAction(e, runStats[int64], runStats[string]),
	}
}

func runStats[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	st := stats{
		KeyType:  s.keyType,
		Format:   s.dict.Codec().Format(),
		Location: s.location,
		Size:     s.dict.Store().Len(),
		Empty:    s.dict.Store().IsEmpty(),
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return false, goerr.Wrap(err, "failed to marshal stats")
		}
		safe.Write(ctx, s.out, append(data, '\n'))
		return false, nil
	}

	printLine(ctx, s.out, "%s %s", labelColor.Sprint("key type:"), st.KeyType)
	printLine(ctx, s.out, "%s %s", labelColor.Sprint("format:  "), st.Format)
	printLine(ctx, s.out, "%s %s", labelColor.Sprint("location:"), st.Location)
	printLine(ctx, s.out, "%s %d", labelColor.Sprint("size:    "), st.Size)
	return false, nil
}
