package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File is the optional TOML configuration. Values given by flags or
// environment variables take precedence over it.
type File struct {
	Dictionary FileDictionary `toml:"dictionary"`
	Storage    FileStorage    `toml:"storage"`
}

// FileDictionary is the [dictionary] table
type FileDictionary struct {
	KeyType string `toml:"key_type"`
	Format  string `toml:"format"`
}

// FileStorage is the [storage] table
type FileStorage struct {
	Backend     string `toml:"backend"`
	Path        string `toml:"path"`
	Bucket      string `toml:"bucket"`
	Object      string `toml:"object"`
	ProjectID   string `toml:"project_id"`
	DatabaseID  string `toml:"database_id"`
	Collection  string `toml:"collection"`
	Document    string `toml:"document"`
	Credentials string `toml:"credentials"`
}

// LoadFile reads and parses the TOML configuration at path
func LoadFile(path string) (*File, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

// orDefault returns current when it is set, otherwise fallback
func orDefault(current, fallback string) string {
	if current != "" {
		return current
	}
	return fallback
}
