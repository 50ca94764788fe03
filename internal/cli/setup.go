/*
Package cli implements the markovsuggestor subcommands.

Commands share one bootstrap path: load and validate the configuration,
open the sqlite store, rebuild the catalog snapshot and the frozen
Markov model from it, and hand everything to the engine.
*/
package cli

import (
	"fmt"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/config"
	"github.com/Nika3406/MarkovSuggestor/internal/engine"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
	"github.com/Nika3406/MarkovSuggestor/internal/storage"
)

// runtime bundles what a command needs after bootstrap.
type runtime struct {
	cfg   *config.Config
	store *storage.Store
	eng   *engine.Engine
}

// bootstrap loads config, opens storage, and builds the engine from the
// persisted catalog and model. configPath empty means the default
// location; a missing config file yields defaults.
func bootstrap(configPath string) (*runtime, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.DefaultDatabasePath()
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(dbPath)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	entries, err := store.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	snap, err := catalog.NewSnapshot(entries)
	if err != nil {
		return nil, fmt.Errorf("persisted catalog is invalid: %w", err)
	}

	model, err := loadModel(store, cfg.Model.Order)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg, model, snap)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, store: store, eng: eng}, nil
}

// loadModel rebuilds the frozen model from persisted transitions. With
// no training data the model still answers predictions through the
// unknown bucket.
func loadModel(store *storage.Store, order int) (*markov.Model, error) {
	transitions, err := store.LoadTransitions()
	if err != nil {
		return nil, fmt.Errorf("failed to load model transitions: %w", err)
	}
	model, err := markov.NewModelFromTransitions(order, transitions)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild model: %w", err)
	}
	return model, nil
}

// close releases the runtime's resources.
func (rt *runtime) close() {
	if rt.store != nil {
		rt.store.Close()
	}
}
