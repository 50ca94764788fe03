package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Nika3406/MarkovSuggestor/internal/config"
	"github.com/Nika3406/MarkovSuggestor/internal/logger"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
	"github.com/Nika3406/MarkovSuggestor/internal/storage"
	"github.com/spf13/cobra"
)

// NewTrainCmd creates the train command. It counts token transitions in
// a corpus and replaces the persisted model wholesale.
func NewTrainCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "train <corpus>",
		Short: "Train the token-sequence model from a corpus",
		Long: `Train reads a corpus of token sequences (one JSON array per line,
each element {"text", "category"}), counts category transitions for
every order up to the configured k, and persists the counts. The model
is frozen once training completes; suggest and serve rebuild it from
the persisted counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.LoadFrom(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			model, err := markov.NewModel(cfg.Model.Order)
			if err != nil {
				return err
			}

			sequences, err := trainFromFile(model, args[0])
			if err != nil {
				return err
			}
			model.Freeze()

			dbPath, err := cfg.DefaultDatabasePath()
			if err != nil {
				return err
			}
			store := storage.NewStore(dbPath)
			if err := store.Init(); err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			transitions := model.Export()
			if err := store.ReplaceTransitions(transitions); err != nil {
				return fmt.Errorf("failed to persist model: %w", err)
			}

			logger.New("train").Info("model trained",
				"sequences", sequences, "transitions", len(transitions), "order", cfg.Model.Order)
			fmt.Fprintf(cmd.OutOrStdout(), "Trained on %d sequences (%d transition rows, order %d)\n",
				sequences, len(transitions), cfg.Model.Order)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	return cmd
}

// trainFromFile feeds every corpus line into the model and returns the
// sequence count. Blank lines are skipped; a malformed line aborts the
// run so a half-trained model is never persisted.
func trainFromFile(model *markov.Model, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	sequences := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var seq []markov.Token
		if err := json.Unmarshal(line, &seq); err != nil {
			return 0, fmt.Errorf("corpus line %d: %w", sequences+1, err)
		}
		if err := model.Observe(seq); err != nil {
			return 0, err
		}
		sequences++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read corpus: %w", err)
	}
	return sequences, nil
}
