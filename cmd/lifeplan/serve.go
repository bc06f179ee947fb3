package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeplan/household-calculator/internal/api"
	"github.com/lifeplan/household-calculator/internal/calculation"
	"github.com/lifeplan/household-calculator/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		dbPath, _ := cmd.Flags().GetString("db")
		verbose, _ := cmd.Flags().GetBool("verbose")

		engine := calculation.NewEngine()
		engine.SetLogger(stderrLogger{verbose: verbose})

		var st *store.Store
		if dbPath != "" {
			var err error
			st, err = store.New(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		router := api.NewRouter(api.NewHandler(engine, st))
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			engine.Logger.Infof("listening on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "HTTP port")
	serveCmd.Flags().String("db", "", "SQLite path for named configuration blocks (\":memory:\" for in-memory; empty disables the store)")
	serveCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}
