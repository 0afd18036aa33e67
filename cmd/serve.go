package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examiz/internal/config"
	"github.com/abhisek/examiz/internal/server"
	"github.com/abhisek/examiz/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve question sets over HTTP",
	Long: "Serve question sets over HTTP.\n\n" +
		"  GET /api/questions/{15|30|45}  a test\n" +
		"  GET /api/categories            the category catalog\n" +
		"  GET /healthz                   liveness\n" +
		"  GET /metrics                   Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		var st *store.Store
		if e.cfg.Bank.Source == config.SourceSQLite {
			if st, err = e.openStore(); err != nil {
				return err
			}
			defer st.Close()
		}
		src, err := e.source(st)
		if err != nil {
			return err
		}

		sc := e.cfg.Server
		opts := server.Options{
			Mode:           sc.Mode,
			AllowedOrigins: sc.AllowedOrigins,
			RateLimit:      sc.RateLimit,
			RateWindow:     sc.RateWindow,
			ReadTimeout:    sc.ReadTimeout,
			WriteTimeout:   sc.WriteTimeout,
		}
		return server.New(src, opts, e.log).Run(cmd.Context(), sc.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":5000", "Listen address")
}
