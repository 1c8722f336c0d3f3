package estimator

import (
	"context"
	"fmt"

	"github.com/rewired-gh/ppsf/internal/config"
	"github.com/rewired-gh/ppsf/internal/features"
	"github.com/rewired-gh/ppsf/internal/logger"
	"github.com/rewired-gh/ppsf/internal/model"
	"github.com/rewired-gh/ppsf/internal/prediction"
	"github.com/rewired-gh/ppsf/internal/reference"
	"github.com/rewired-gh/ppsf/internal/scoring"
)

// Open loads the reference tables and the model described by cfg and
// returns a ready Service. Model failures wrap models.ErrModelUnavailable.
func Open(ctx context.Context, cfg *config.Config) (*Service, error) {
	tables, err := loadTables(cfg.Reference)
	if err != nil {
		return nil, err
	}

	m, err := loadModel(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}

	adapter := prediction.NewAdapter(m, prediction.WithClampNegative(cfg.Model.ClampNegative))
	return New(features.NewBuilder(tables), adapter), nil
}

func loadTables(cfg config.ReferenceConfig) (*reference.Tables, error) {
	if cfg.Path == "" {
		logger.Debug("Using built-in reference tables")
		return reference.Default()
	}

	tables, err := reference.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables: %w", err)
	}
	logger.Info("Reference tables loaded from %s (%d cities)", cfg.Path, len(tables.Cities()))
	return tables, nil
}

func loadModel(ctx context.Context, cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Source {
	case config.ModelSourceRemote:
		client := scoring.NewClient(cfg.RemoteURL, cfg.Timeout)
		info, err := client.CheckFeatures(ctx, features.Names())
		if err != nil {
			return nil, err
		}
		logger.Info("Using remote model %s (version %s) at %s", info.Name, info.Version, cfg.RemoteURL)
		return client, nil
	default:
		r, err := model.Load(cfg.Path, features.Names())
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded %s model %q from %s", r.Kind(), r.Name(), cfg.Path)
		return r, nil
	}
}
