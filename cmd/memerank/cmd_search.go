package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/memerank/memerank/internal/dexscreener"
	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/pipeline"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <meme name>",
		Short: "Resolve one meme name to live trading pairs",
		Long:  "Extracts search phrases from a meme name, searches the market source, and prints the scored matches",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	cmd.Flags().StringSlice("tags", nil, "Extra context tags for phrase extraction")
	cmd.Flags().Int("limit", 10, "Maximum matches to print")
	cmd.Flags().Duration("timeout", time.Minute, "Search deadline")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	tags, _ := cmd.Flags().GetStringSlice("tags")
	limit, _ := cmd.Flags().GetInt("limit")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := dexscreener.New(cfg.Fetch)
	defer client.Close()

	candidate := domain.Candidate{Name: strings.Join(args, " "), Tags: tags}
	matches := pipeline.NewPairSearch(cfg, client).Run(ctx, candidate)
	if len(matches) == 0 {
		fmt.Printf("No matches for %q\n", candidate.Name)
		return nil
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}
