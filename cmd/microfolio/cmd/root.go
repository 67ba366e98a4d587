package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/microfolio/microfolio/api"
	"github.com/microfolio/microfolio/config"
	"github.com/microfolio/microfolio/journal"
	"github.com/microfolio/microfolio/session"
)

var rootCmd = &cobra.Command{
	Use:   "microfolio",
	Short: "A terminal client for the microfolio portfolio service",
	Long: `Microfolio is a terminal client for the microfolio portfolio service.

It provides tools for:
  - Viewing your portfolio, trade log and equity curve
  - Submitting buy and sell trades with stop-loss orders
  - Triggering end-of-day portfolio processing
  - Keeping a local journal of trades and equity in CSV or SQLite
  - Downloading the server-rendered equity chart`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; explicit environment always wins.
		godotenv.Load()

		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	},
}

var (
	cfgPath string
	verbose bool
	logger  zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: built-in defaults plus environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromFile(cfgPath)
	}
	cfg := config.Default()
	if v := os.Getenv(config.EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession prefers a token from the environment over the token file, so
// scripted use never touches the filesystem.
func newSession(cfg *config.Config) (*session.Store, error) {
	if tok := os.Getenv(config.EnvToken); tok != "" {
		return session.NewStore(tok), nil
	}
	return session.NewFileStore(cfg.Session.TokenFile)
}

func newClient(cfg *config.Config, sess *session.Store) *api.Client {
	return api.NewClient(cfg.API.BaseURL, sess,
		api.WithLogger(logger),
		api.WithTimeouts(cfg.API.Timeout(), cfg.API.HistoryTimeout()),
	)
}

// newJournal returns nil when no local journal is configured.
func newJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "":
		return nil, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}
