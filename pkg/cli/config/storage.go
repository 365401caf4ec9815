package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/interfaces"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/repository/file"
	"github.com/secmon-lab/trio/pkg/repository/firestore"
	"github.com/secmon-lab/trio/pkg/repository/gcs"
	"github.com/secmon-lab/trio/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

const (
	defaultPath   = "trio.json"
	defaultObject = "trio.json"
)

// Storage holds CLI flags selecting where the dictionary is persisted
type Storage struct {
	backend     string
	path        string
	bucket      string
	object      string
	projectID   string
	databaseID  string
	collection  string
	document    string
	credentials string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage",
			Aliases:     []string{"s"},
			Usage:       "Storage backend (file, gcs or firestore)",
			Sources:     cli.EnvVars("TRIO_STORAGE"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "path",
			Aliases:     []string{"p"},
			Usage:       "Dictionary file path for the file backend (default: " + defaultPath + ")",
			Sources:     cli.EnvVars("TRIO_PATH"),
			Destination: &s.path,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (required for the gcs backend)",
			Sources:     cli.EnvVars("TRIO_GCS_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-object",
			Usage:       "Cloud Storage object name (default: " + defaultObject + ")",
			Sources:     cli.EnvVars("TRIO_GCS_OBJECT"),
			Destination: &s.object,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required for the firestore backend)",
			Sources:     cli.EnvVars("TRIO_FIRESTORE_PROJECT_ID"),
			Destination: &s.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("TRIO_FIRESTORE_DATABASE_ID"),
			Destination: &s.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding dictionaries",
			Sources:     cli.EnvVars("TRIO_FIRESTORE_COLLECTION"),
			Destination: &s.collection,
		},
		&cli.StringFlag{
			Name:        "firestore-document",
			Usage:       "Firestore document of this dictionary",
			Sources:     cli.EnvVars("TRIO_FIRESTORE_DOCUMENT"),
			Destination: &s.document,
		},
		&cli.StringFlag{
			Name:        "google-credentials",
			Usage:       "Service account credentials file for gcs and firestore",
			Sources:     cli.EnvVars("TRIO_GOOGLE_CREDENTIALS"),
			Destination: &s.credentials,
		},
	}
}

// ApplyFile fills the values not given by flags from the config file
func (s *Storage) ApplyFile(f *FileStorage) {
	if f == nil {
		return
	}
	s.backend = orDefault(s.backend, f.Backend)
	s.path = orDefault(s.path, f.Path)
	s.bucket = orDefault(s.bucket, f.Bucket)
	s.object = orDefault(s.object, f.Object)
	s.projectID = orDefault(s.projectID, f.ProjectID)
	s.databaseID = orDefault(s.databaseID, f.DatabaseID)
	s.collection = orDefault(s.collection, f.Collection)
	s.document = orDefault(s.document, f.Document)
	s.credentials = orDefault(s.credentials, f.Credentials)
}

// LogValue implements slog.LogValuer
func (s *Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", s.backend),
		slog.String("path", s.path),
		slog.String("bucket", s.bucket),
		slog.String("object", s.object),
		slog.String("project_id", s.projectID),
		slog.String("database_id", s.databaseID),
	)
}

func (s *Storage) clientOptions() []option.ClientOption {
	if s.credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(s.credentials)}
}

// Configure builds the persister for the selected backend.
// The caller is responsible for calling Close() on the returned persister.
func (s *Storage) Configure(ctx context.Context) (interfaces.Persister, error) {
	backend, err := types.ParseBackend(s.backend)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(BackendKey, s.backend))
	}

	logger := logging.From(ctx)

	switch backend {
	case types.BackendFile:
		p, err := file.New(orDefault(s.path, defaultPath))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file storage")
		}
		logger.Debug("Using file storage", "path", p.Location())
		return p, nil

	case types.BackendGCS:
		if s.bucket == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "gcs-bucket is required when using gcs backend")
		}
		p, err := gcs.New(ctx, s.bucket, orDefault(s.object, defaultObject), s.clientOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs storage")
		}
		logger.Debug("Using Cloud Storage", "location", p.Location())
		return p, nil

	case types.BackendFirestore:
		if s.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		opts := []firestore.Option{
			firestore.WithCollection(s.collection),
			firestore.WithDocument(s.document),
		}
		p, err := firestore.New(ctx, s.projectID, s.databaseID, opts, s.clientOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore storage")
		}
		logger.Debug("Using Firestore storage",
			"project_id", s.projectID,
			"database_id", s.databaseID,
			"location", p.Location(),
		)
		return p, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "unsupported storage backend", goerr.V(BackendKey, backend))
	}
}
