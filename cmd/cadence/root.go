package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/config"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/youtube"
)

var (
	cfg     *config.Config
	verbose bool
	timeout time.Duration

	// newDirectory builds the channel directory for a command run.
	newDirectory = func(ctx context.Context, cfg *config.Config) (service.ChannelDirectory, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return youtube.NewClient(ctx, youtube.Config{
			APIKey:     cfg.YouTubeAPIKey,
			Endpoint:   cfg.YouTubeAPIEndpoint,
			RPS:        cfg.YouTubeRPS,
			MaxRetries: cfg.YouTubeMaxRetries,
			MaxUploads: cfg.MaxUploads,
		})
	}

	// now is the analysis clock.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "YouTube channel publishing-cadence analyzer",
	Long: `cadence finds a YouTube channel by name and reports how regularly it
publishes, separately for long-form videos and Shorts.

Example usage:
  cadence rank "veritasium"                 # Rank matching channels
  cadence analyze "veritasium"              # 90-day cadence report
  cadence analyze "veritasium" --scope 365d # One-year window
  cadence analyze "veritasium" --json       # Report as JSON
  cadence analyze "veritasium" --charts out # Also write PNG charts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()

		cfg = config.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall request timeout")
}

// newAnalyticsService wires the same service graph the server uses, minus
// cache and persistence.
func newAnalyticsService(ctx context.Context) (*service.AnalyticsService, error) {
	dir, err := newDirectory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return service.NewAnalyticsService(
		dir,
		service.NewRankService(),
		service.NewPeriodicityService(service.NewScopeService(), service.NewMetricsService()),
		service.NewChartService(),
		nil,
		service.AnalyticsOptions{
			SearchLimit:         cfg.SearchLimit,
			AutoSelectThreshold: cfg.AutoSelectThreshold,
			DefaultScope:        cfg.DefaultScope,
			Now:                 now,
		},
	), nil
}
