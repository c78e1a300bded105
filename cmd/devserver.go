package cmd

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

	"github.com/abhisek/pathwise/internal/devserver"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Serve an in-memory guidance API for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		addr := cfg.DevServer.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		stages, _ := cmd.Flags().GetInt("stages")

		srv := &http.Server{
			Addr:              addr,
			Handler:           devserver.New(devserver.WithStages(stages)).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Dev server listening on %s\n", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("dev server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("dev server shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	devserverCmd.Flags().String("addr", "", "Listen address (overrides PATHWISE_DEV_ADDR)")
	devserverCmd.Flags().Int("stages", 0, "Polls a report job takes to finish (default: one per stage)")
}
