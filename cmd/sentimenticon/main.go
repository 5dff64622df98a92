package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/japaniel/sentimenticon/pkg/config"
	"github.com/japaniel/sentimenticon/pkg/db"
	"github.com/japaniel/sentimenticon/pkg/lexicon"
	"github.com/japaniel/sentimenticon/pkg/logging"
	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

var (
	configPath    string
	colorMode     string
	lexiconFromDB bool

	// settings is filled in by the root command before any subcommand runs.
	settings config.Config
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sentimenticon",
	Short:         "Word sentiment from the hedonometer lexicon",
	Long:          "sentimenticon scores words and text with the Dodds et al. happiness lexicon (-1.0 saddest, 1.0 happiest).",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a TOML config file (default ./"+config.DefaultFile+" if present)")
	pf.String("language", "", "lexicon language code")
	pf.String("data-dir", "", "directory holding <language>/"+lexicon.FileName)
	pf.String("db", "", "path to the SQLite database")
	pf.Bool("skip-invalid", false, "skip lexicon records with out-of-range averages instead of failing")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (text|json)")
	pf.StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")
	pf.BoolVar(&lexiconFromDB, "lexicon-from-db", false, "load the lexicon from the database instead of the data directory")

	rootCmd.AddCommand(wordCmd, scoreCmd, inspectCmd, statsCmd, fetchCmd, importCmd, ingestCmd, serveCmd, versionCmd)
}

// setup resolves settings as defaults < config file < environment < flags.
func setup(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	overrideString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	overrideString("language", &cfg.Language)
	overrideString("data-dir", &cfg.DataDir)
	overrideString("db", &cfg.DBPath)
	overrideString("log-level", &cfg.LogLevel)
	overrideString("log-format", &cfg.LogFormat)
	if flags.Changed("skip-invalid") {
		cfg.SkipInvalid, _ = flags.GetBool("skip-invalid")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch colorMode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorMode)
	}

	settings = cfg
	logger = logging.Init(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

// loadAnalyzer builds the analyzer from the data directory, or from the database with --lexicon-from-db.
func loadAnalyzer() (*sentimenticon.Analyzer, error) {
	ac := settings.Analyzer()
	ac.Logger = logger

	if !lexiconFromDB {
		return sentimenticon.New(ac)
	}

	conn, err := db.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	lex, err := lexicon.LoadFromDB(conn, settings.Language)
	if err != nil {
		return nil, err
	}
	return sentimenticon.NewFromLexicon(lex, ac)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		cancel()
		os.Exit(1)
	}
}
