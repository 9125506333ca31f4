package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "memerank"
	version = "v1.0.0"
)

var (
	flagConfig   string
	flagSeed     string
	flagOut      string
	flagRedis    string
	flagPostgres string
	flagVerbose  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "memerank",
		Short:   "Memerank - meme token discovery and ranking",
		Version: version,
		Long: "Memerank resolves trending memes to on-chain tokens, scores them on market\n" +
			"strength, name relevance, timing and video virality, and publishes a ranked list.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to scoring config YAML (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "data/meme_matches.json", "Path to the candidate seed list")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "out/rankings", "Directory for ranking documents")
	rootCmd.PersistentFlags().StringVar(&flagRedis, "redis", "", "Redis address for the snapshot cache (disabled when empty)")
	rootCmd.PersistentFlags().StringVar(&flagPostgres, "postgres", "", "Postgres DSN for the scan archive (disabled when empty)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newTrendsCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setupLogging picks console output on a TTY and plain JSON otherwise, so
// piped output stays machine readable.
func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
