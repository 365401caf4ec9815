package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/codec"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/usecase"
	"github.com/secmon-lab/trio/pkg/utils/logging"
	"github.com/secmon-lab/trio/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// session is one command run against a loaded dictionary
type session[K types.Identifier] struct {
	dict     *usecase.Dictionary[K]
	out      io.Writer
	env      *env
	keyType  types.KeyType
	location string
}

// handler runs a command and reports whether the dictionary changed and
// has to be saved.
type handler[K types.Identifier] func(ctx context.Context, c *cli.Command, s *session[K]) (bool, error)

// dictionaryAction loads the dictionary with the configured key type, runs
// the matching handler and saves the result when it mutated.
func dictionaryAction(e *env, intHandler handler[int64], stringHandler handler[string]) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		keyType, err := e.dictionary.KeyType()
		if err != nil {
			return err
		}

		switch keyType {
		case types.KeyTypeInt:
			return execute(ctx, c, e, keyType, intHandler)
		case types.KeyTypeString:
			return execute(ctx, c, e, keyType, stringHandler)
		default:
			return goerr.Wrap(model.ErrInvalidConfig, "unsupported key type", goerr.V("key_type", keyType))
		}
	}
}

func execute[K types.Identifier](ctx context.Context, c *cli.Command, e *env, keyType types.KeyType, h handler[K]) error {
	format, err := e.dictionary.Format()
	if err != nil {
		return err
	}
	cd, err := codec.New[K](format)
	if err != nil {
		return err
	}

	persister, err := e.storage.Configure(ctx)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, persister)

	dict := usecase.NewDictionary(cd, usecase.WithPersister[K](persister))
	if err := dict.Load(ctx); err != nil {
		return err
	}

	s := &session[K]{
		dict:     dict,
		out:      e.out,
		env:      e,
		keyType:  keyType,
		location: persister.Location(),
	}

	mutated, err := h(ctx, c, s)
	if err != nil {
		return err
	}
	if !mutated {
		return nil
	}

	if err := dict.Save(ctx); err != nil {
		return err
	}
	logging.From(ctx).Debug("dictionary changed", "command", c.Name, "size", dict.Store().Len())
	return nil
}

// parseArgID parses the n-th positional argument as an identifier
func parseArgID[K types.Identifier](c *cli.Command, n int, name string) (K, error) {
	var zero K
	if c.Args().Len() <= n {
		return zero, goerr.Wrap(errMissingArgument, "argument is required", goerr.V(argumentKey, name))
	}
	id, err := types.ParseID[K](c.Args().Get(n))
	if err != nil {
		return zero, goerr.Wrap(errInvalidArgument, err.Error(), goerr.V(argumentKey, name), goerr.V(valueKey, c.Args().Get(n)))
	}
	return id, nil
}

// requireArg returns the n-th positional argument
func requireArg(c *cli.Command, n int, name string) (string, error) {
	if c.Args().Len() <= n {
		return "", goerr.Wrap(errMissingArgument, "argument is required", goerr.V(argumentKey, name))
	}
	return c.Args().Get(n), nil
}
