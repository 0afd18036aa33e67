package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/app"
	"github.com/abhisek/examiz/internal/llm"
	"github.com/abhisek/examiz/internal/question"
	"github.com/abhisek/examiz/internal/screens/deps"
	"github.com/abhisek/examiz/internal/store"
	"github.com/abhisek/examiz/internal/tutor"
)

type appOptions struct {
	length question.Length
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, o appOptions) error {
	ctx := cmd.Context()
	e, err := loadEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	src, err := e.source(st)
	if err != nil {
		return err
	}

	d := deps.Deps{
		Source:        src,
		Weights:       e.cfg.Weights(),
		Policy:        e.cfg.Exam.Policy,
		Log:           e.log,
		DefaultLength: e.cfg.DefaultLength(),
		ExportDir:     exportDir(),
	}
	if t := newTutor(cmd, e, st.EventRepo()); t != nil {
		d.Tutor = t
	}

	e.log.Info("starting",
		zap.String("version", version),
		zap.String("source", src.Name()),
		zap.Bool("tutor", d.Tutor != nil))

	return app.Run(ctx, d, app.Options{StartLength: o.length})
}

// newTutor returns nil when no provider is configured or it fails to
// start; the app works without explanations.
func newTutor(cmd *cobra.Command, e *env, repo store.EventRepo) *tutor.Service {
	cfg := e.cfg.LLM
	if !cfg.Discover() {
		return nil
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg, repo, e.log)
	if err != nil {
		e.log.Warn("tutor unavailable", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured:", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Explanations will be unavailable.")
		return nil
	}
	return tutor.NewService(provider, e.cfg.Tutor, e.log)
}
