package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func textFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "description",
			Aliases:  []string{"d"},
			Usage:    "Description of the entry",
			Required: required,
		},
		&cli.StringFlag{
			Name:     "briefing",
			Aliases:  []string{"b"},
			Usage:    "Briefing of the entry",
			Required: required,
		},
	}
}

func cmdInsert(e *env) *cli.Command {
	return &cli.Command{
		Name:    "insert",
		Aliases: []string{"add"},
		Usage:   "Insert an entry. An existing id is left untouched",
		Flags: append(textFlags(true), &cli.StringFlag{
			Name:  "id",
			Usage: "Identifier of the entry. Generated for the string key type when omitted",
		}),
		Action: dictionaryAction(e, runInsert[int64], runInsert[string]),
	}
}

func runInsert[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	idText := c.String("id")
	if idText == "" {
		if s.keyType != types.KeyTypeString {
			return false, goerr.Wrap(errMissingArgument, "--id is required for the int key type", goerr.V(argumentKey, "id"))
		}
		idText = model.NewTextID()
	}

	id, err := types.ParseID[K](idText)
	if err != nil {
		return false, goerr.Wrap(errInvalidArgument, err.Error(), goerr.V(argumentKey, "id"), goerr.V(valueKey, idText))
	}

	inserted, err := s.dict.SafeInsert(ctx, id, c.String("description"), c.String("briefing"))
	if err != nil {
		return false, err
	}
	if !inserted {
		printSkipped(ctx, s.out, "already exists", id)
		return false, nil
	}

	printDone(ctx, s.out, "inserted", id)
	return true, nil
}

func cmdGet(e *env) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show an entry",
		ArgsUsage: "<id>",
		Action:    dictionaryAction(e, runGet[int64], runGet[string]),
	}
}

func runGet[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	id, err := parseArgID[K](c, 0, "id")
	if err != nil {
		return false, err
	}

	r, ok := s.dict.Store().Get(id)
	if !ok {
		return false, goerr.Wrap(errNotFound, "no entry for id", goerr.V(model.IDKey, id))
	}

	printRecord(ctx, s.out, r)
	return false, nil
}

func cmdRemove(e *env) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove entries",
		ArgsUsage: "<id> [<id>...]",
		Action:    dictionaryAction(e, runRemove[int64], runRemove[string]),
	}
}

func runRemove[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	if c.Args().Len() == 0 {
		return false, goerr.Wrap(errMissingArgument, "argument is required", goerr.V(argumentKey, "id"))
	}

	ids := make([]K, 0, c.Args().Len())
	for i := range c.Args().Len() {
		id, err := parseArgID[K](c, i, "id")
		if err != nil {
			return false, err
		}
		ids = append(ids, id)
	}

	mutated := false
	for _, id := range ids {
		removed, err := s.dict.SafeRemove(ctx, id)
		if err != nil {
			return mutated, err
		}
		if removed {
			mutated = true
			printDone(ctx, s.out, "removed", id)
		} else {
			printSkipped(ctx, s.out, "not found", id)
		}
	}
	return mutated, nil
}

func cmdUpdate(e *env) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change the description and/or briefing of an entry",
		ArgsUsage: "<id>",
		Flags:     textFlags(false),
		Action:    dictionaryAction(e, runUpdate[int64], runUpdate[string]),
	}
}

func runUpdate[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	id, err := parseArgID[K](c, 0, "id")
	if err != nil {
		return false, err
	}

	var description, briefing *string
	if c.IsSet("description") {
		v := c.String("description")
		description = &v
	}
	if c.IsSet("briefing") {
		v := c.String("briefing")
		briefing = &v
	}
	if description == nil && briefing == nil {
		return false, goerr.Wrap(errMissingArgument, "--description or --briefing is required", goerr.V(argumentKey, "description"))
	}

	updated, err := s.dict.Store().Update(id, description, briefing)
	if err != nil {
		return false, err
	}
	if !updated {
		printSkipped(ctx, s.out, "not found", id)
		return false, nil
	}

	printDone(ctx, s.out, "updated", id)
	return true, nil
}

func cmdReplace(e *env) *cli.Command {
	return &cli.Command{
		Name:      "replace",
		Usage:     "Replace both fields of an existing entry",
		ArgsUsage: "<id>",
		Flags:     textFlags(true),
		Action:    dictionaryAction(e, runReplace[int64], runReplace[string]),
	}
}

func runReplace[K types.Identifier](ctx context.Context, c *cli.Command, s *session[K]) (bool, error) {
	id, err := parseArgID[K](c, 0, "id")
	if err != nil {
		return false, err
	}

	replaced, err := s.dict.Store().Replace(id, c.String("description"), c.String("briefing"))
	if err != nil {
		return false, err
	}
	if !replaced {
		printSkipped(ctx, s.out, "not found", id)
		return false, nil
	}

	printDone(ctx, s.out, "replaced", id)
	return true, nil
}
