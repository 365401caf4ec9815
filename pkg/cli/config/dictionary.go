package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Dictionary holds CLI flags describing the dictionary itself
type Dictionary struct {
	keyType string
	format  string
}

// Flags returns CLI flags for dictionary configuration
func (d *Dictionary) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "key-type",
			Aliases:     []string{"k"},
			Usage:       "Identifier type of the dictionary (int or string)",
			Sources:     cli.EnvVars("TRIO_KEY_TYPE"),
			Destination: &d.keyType,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Shape of the stored text (list or map)",
			Sources:     cli.EnvVars("TRIO_FORMAT"),
			Destination: &d.format,
		},
	}
}

// ApplyFile fills the values not given by flags from the config file
func (d *Dictionary) ApplyFile(f *FileDictionary) {
	if f == nil {
		return
	}
	d.keyType = orDefault(d.keyType, f.KeyType)
	d.format = orDefault(d.format, f.Format)
}

// KeyType returns the configured key type, int by default
func (d *Dictionary) KeyType() (types.KeyType, error) {
	k, err := types.ParseKeyType(d.keyType)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(FlagKey, "key-type"), goerr.V(ValueKey, d.keyType))
	}
	return k, nil
}

// Format returns the configured text format, list by default
func (d *Dictionary) Format() (types.Format, error) {
	f, err := types.ParseFormat(d.format)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(FlagKey, "format"), goerr.V(ValueKey, d.format))
	}
	return f, nil
}
