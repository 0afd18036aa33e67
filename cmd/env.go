package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/config"
	"github.com/abhisek/examiz/internal/logging"
	"github.com/abhisek/examiz/internal/store"
)

// env is what every command starts from: validated config and a logger.
type env struct {
	cfg config.Config
	log *zap.Logger
}

// loadEnv reads configuration for cmd and builds its logger. console
// receives a readable copy of the log; the TUI passes nil.
func loadEnv(cmd *cobra.Command, console io.Writer) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	inferSource(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	log.Debug("config loaded",
		zap.String("file", cfg.File),
		zap.String("source", cfg.Bank.Source),
		zap.String("llm", cfg.LLM.Provider))
	return &env{cfg: cfg, log: log}, nil
}

// inferSource lets --bank alone pick the source: a directory of test
// files or a single bank file.
func inferSource(cfg *config.Config) {
	if cfg.Bank.Source != config.SourceEmbedded || cfg.Bank.Path == "" {
		return
	}
	cfg.Bank.Source = config.SourceBank
	if fi, err := os.Stat(cfg.Bank.Path); err == nil && fi.IsDir() {
		cfg.Bank.Source = config.SourceDir
	}
}

func (e *env) dbPath() (string, error) {
	if e.cfg.DB.Path != "" {
		return e.cfg.DB.Path, store.EnsureDir(e.cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

func (e *env) openStore() (*store.Store, error) {
	p, err := e.dbPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.log.Debug("store opened", zap.String("path", p))
	return st, nil
}

// source builds the configured question source. st is only used by the
// sqlite source and may be nil otherwise.
func (e *env) source(st *store.Store) (bank.Source, error) {
	b := e.cfg.Bank
	w := e.cfg.Weights()
	seed := e.cfg.Exam.Seed

	switch b.Source {
	case config.SourceEmbedded:
		return bank.NewEmbeddedSource(w, seed), nil
	case config.SourceDir:
		return bank.NewDirSource(b.Path), nil
	case config.SourceBank:
		return bank.NewFileSource(b.Path, w, seed), nil
	case config.SourceHTTP:
		return bank.NewHTTPSource(b.URL), nil
	case config.SourceSQLite:
		if st == nil {
			return nil, fmt.Errorf("the sqlite source needs a database")
		}
		return bank.NewStoreSource("sqlite", st.QuestionRepo(), w, seed), nil
	}
	return nil, fmt.Errorf("unknown question source %q", b.Source)
}

// exportDir is where relative report paths land.
func exportDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(wd)
}
