package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/memerank/memerank/internal/pipeline"
	"github.com/memerank/memerank/internal/seed"
	"github.com/memerank/memerank/internal/videoapi"
)

func newTrendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Sweep video engagement trends for the seed list",
		Long:  "Searches the video platform for every seed candidate and reports per-candidate virality, best first",
		RunE:  runTrends,
	}
	cmd.Flags().String("api-key", "", "Video platform API key (falls back to VIDEO_API_KEY)")
	cmd.Flags().Duration("timeout", 15*time.Minute, "Overall sweep deadline")
	return cmd
}

func runTrends(cmd *cobra.Command, args []string) error {
	apiKey, _ := cmd.Flags().GetString("api-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if apiKey == "" {
		apiKey = os.Getenv("VIDEO_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: pass --api-key or set VIDEO_API_KEY")
	}

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

	quota := videoapi.NewQuotaTracker(cfg.Quota)
	client := videoapi.NewClient(cfg.Quota, apiKey, quota)

	out, err := pipeline.NewTrendSweep(cfg, client, quota).Run(ctx, list)
	if err != nil {
		return fmt.Errorf("trend sweep aborted: %w", err)
	}

	if out.Truncated {
		log.Warn().Int("analyzed", len(out.Entries)).Int("seeded", len(list.Matches)).
			Msg("sweep truncated by quota budget")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
