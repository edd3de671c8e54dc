package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tanya-konstitusi/internal/config"
	"tanya-konstitusi/internal/corpus"
	"tanya-konstitusi/internal/engine"
	"tanya-konstitusi/internal/retrieval"
)

// app carries the resolved configuration shared by every subcommand.
type app struct {
	cfg *config.Config

	flagCacheDir string
	flagCorpus   string
	flagOptions  string
	flagModels   []string
	flagKeywords bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "qa",
		Short:        "Train, query and evaluate the constitution QA models",
		SilenceUsage: true, // don't print usage on operational errors
		Long: `qa builds TF-IDF, word2vec and doc2vec models over a question/answer
dataset and caches them for the API server. Flags override the environment
and .env values read by the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flagCacheDir, "cache-dir", "", "Cache root (default $CACHE_DIR or .cache)")
	pf.StringVar(&a.flagCorpus, "corpus", "", "Tab-separated dataset (default $CORPUS_PATH or dataset.tsv)")
	pf.StringVar(&a.flagOptions, "options", "", "YAML file with per-model training options (default $OPTIONS_PATH)")
	pf.StringSliceVar(&a.flagModels, "models", nil, "Models to use (default $QA_MODELS)")
	pf.BoolVar(&a.flagKeywords, "keywords", false, "Prefix each training document with its Keywords column")

	root.AddCommand(
		newTrainCmd(a),
		newAskCmd(a),
		newEvalCmd(a),
		newTuneCmd(a),
		newCleanCmd(a),
	)
	return root
}

// init loads the environment config, applies flag overrides and installs
// the default logger on stderr so stdout stays machine readable.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.CacheDir = a.flagCacheDir
	}
	if flags.Changed("corpus") {
		cfg.CorpusPath = a.flagCorpus
	}
	if flags.Changed("options") {
		cfg.OptionsPath = a.flagOptions
	}
	if flags.Changed("models") {
		kinds, err := parseKinds(a.flagModels)
		if err != nil {
			return err
		}
		cfg.Models = kinds
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.cfg = cfg
	slog.SetDefault(cfg.NewLogger(cmd.ErrOrStderr()))
	return nil
}

func (a *app) loadCorpus() (*corpus.Corpus, error) {
	opts := corpus.LoadOptions{
		Composition: corpus.ComposeContextResponse,
		DocumentKey: a.cfg.DocumentKey,
	}
	if a.flagKeywords {
		opts.Composition = corpus.ComposeKeywordsContextResponse
	}
	return corpus.LoadFile(a.cfg.CorpusPath, opts)
}

func (a *app) loadOptions() (engine.Options, error) {
	return engine.LoadOptions(a.cfg.OptionsPath)
}

func parseKinds(names []string) ([]retrieval.Kind, error) {
	kinds := make([]retrieval.Kind, 0, len(names))
	for _, n := range names {
		k, err := retrieval.ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("at least one model is required")
	}
	return kinds, nil
}
