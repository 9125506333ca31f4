package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/memerank/memerank/internal/api"
	"github.com/memerank/memerank/internal/report"
	"github.com/memerank/memerank/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest rankings over HTTP",
		Long:  "Serves the most recent ranking document, a health probe, and Prometheus metrics for the dashboard",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8090", "Listen address")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var provider api.RankingsProvider = api.DirProvider{Dir: flagOut}
	if flagPostgres != "" {
		archive, err := store.Open(ctx, flagPostgres)
		if err != nil {
			return err
		}
		defer archive.Close()
		provider = api.ProviderFunc(func(ctx context.Context) (*report.Document, error) {
			doc, err := archive.LatestScan(ctx)
			if err != nil {
				return nil, err
			}
			if doc != nil {
				return doc, nil
			}
			// Fall back to the output directory until the archive has data.
			return report.LatestFromDir(flagOut)
		})
		log.Info().Msg("serving rankings from the scan archive")
	}

	return api.NewServer(provider).ListenAndServe(ctx, addr)
}
