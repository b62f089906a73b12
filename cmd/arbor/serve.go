package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/arbor/internal/cli"
	arborhttp "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the accessibility tree over HTTP. Every request builds a fresh snapshot.

Routes: /healthz, /tree, /tree.txt, /tree.mmd, /zorder?top=N&applicable=true, /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		render, err := s.Config.RenderOptions()
		if err != nil {
			return err
		}

		handler := arborhttp.NewHandler(s.Inspector,
			arborhttp.WithRenderOptions(render),
			arborhttp.WithLogger(s.Logger),
			arborhttp.WithMetricsHandler(promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})),
		)
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting arbor server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Printf("\nStart shutdown... Signal: %v\n", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Println("arbor server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("style", "", "Connector style of /tree.txt: unicode, ascii or rounded")
}
