package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/memerank/memerank/internal/cache"
	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/dexscreener"
	"github.com/memerank/memerank/internal/pipeline"
	"github.com/memerank/memerank/internal/seed"
	"github.com/memerank/memerank/internal/store"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the full seed-to-rankings market scan",
		Long:  "Fetches market data for every seed candidate, scores and ranks them, and writes the ranking document",
		RunE:  runScan,
	}
	cmd.Flags().Duration("timeout", 10*time.Minute, "Overall scan deadline")
	cmd.Flags().Duration("cache-ttl", 5*time.Minute, "Snapshot cache TTL when Redis is enabled")
	return cmd
}

// loadConfig resolves the scoring config, falling back to the built-in
// defaults when no path was given.
func loadConfig() (*config.Scoring, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	return config.Load(flagConfig)
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	list, err := seed.Load(flagSeed)
	if err != nil {
		return err
	}
	log.Info().Int("candidates", len(list.Matches)).Str("seed", flagSeed).Msg("starting scan")

	var opts []dexscreener.Option
	if flagRedis != "" {
		snapCache, err := cache.Open(ctx, flagRedis, 0, cacheTTL)
		if err != nil {
			return err
		}
		defer snapCache.Close()
		opts = append(opts, dexscreener.WithCache(snapCache))
	}

	client := dexscreener.New(cfg.Fetch, opts...)
	defer client.Close()

	doc, err := pipeline.NewMarketScan(cfg, client).Run(ctx, list)
	if err != nil {
		return fmt.Errorf("scan aborted: %w", err)
	}

	path, err := doc.Write(flagOut)
	if err != nil {
		return err
	}

	if flagPostgres != "" {
		archive, err := store.Open(ctx, flagPostgres)
		if err != nil {
			return err
		}
		defer archive.Close()
		if err := archive.SaveScan(ctx, doc); err != nil {
			log.Warn().Err(err).Msg("scan archive write failed")
		}
	}

	fmt.Printf("Ranked %d of %d candidates, wrote %s\n", doc.TotalRanked, len(list.Matches), path)
	return nil
}
