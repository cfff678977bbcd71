// insiderscan finds material open-market insider purchases in the SEC
// Form 3/4/5 data sets, enriches them with company and market data, and
// ranks them.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/insiderscan/internal/config"
	"github.com/seenimoa/insiderscan/internal/logging"
	"github.com/seenimoa/insiderscan/internal/provider"
	"github.com/seenimoa/insiderscan/internal/providers"
	"github.com/seenimoa/insiderscan/internal/providers/sec"
	"github.com/seenimoa/insiderscan/internal/quota"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set before any command runs.
var (
	cfg    *config.Config
	logger = zerolog.Nop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "insiderscan",
	Short: "Rank material open-market insider purchases from SEC filings",
	Long: `insiderscan downloads the quarterly SEC Form 3/4/5 insider transaction
data set, keeps open-market purchases that are large in value and in
position increase, looks up industry, share count and market cap for the
issuer, and ranks what is left by a weighted score.

The ranked rows are printed as a table and written to a semicolon
separated CSV file in the output directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger, err = logging.New(level, cfg.Logging.Format, os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	RunE: runScan,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(configCmd)
}

// newRegistry registers every configured provider. The usage counter is
// shared with the FMP provider.
func newRegistry() (*provider.Registry, *sec.Provider, *quota.Counter, error) {
	counter := quota.NewCounter(cfg.UsagePath())
	reg := provider.NewRegistry()
	sp, err := providers.RegisterAllTo(reg, cfg, counter, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register providers: %w", err)
	}
	return reg, sp, counter, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("insiderscan %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Datasets Command ---

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the published quarterly insider transaction data sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, _, err := newRegistry()
		if err != nil {
			return err
		}
		res, err := reg.FetchFrom(cmd.Context(), "sec", provider.ModelDatasetIndex, provider.QueryParams{})
		if err != nil {
			return err
		}
		archives, ok := res.Data.([]provider.DatasetArchive)
		if !ok {
			return fmt.Errorf("unexpected dataset index payload %T", res.Data)
		}
		for _, a := range archives {
			fmt.Printf("%-22s %s\n", a.Name, a.URL)
		}
		return nil
	},
}

// --- Feed Command ---

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the latest Form 4 filings from the EDGAR current feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		reg, _, _, err := newRegistry()
		if err != nil {
			return err
		}
		params := provider.QueryParams{}
		if limit > 0 {
			params[provider.ParamLimit] = fmt.Sprint(limit)
		}
		res, err := reg.FetchFrom(cmd.Context(), "sec", provider.ModelInsiderFeed, params)
		if err != nil {
			return err
		}
		entries, ok := res.Data.([]provider.FeedEntry)
		if !ok {
			return fmt.Errorf("unexpected feed payload %T", res.Data)
		}
		if len(entries) == 0 {
			fmt.Println("No filings in the feed.")
			return nil
		}
		for _, e := range entries {
			updated := ""
			if !e.Updated.IsZero() {
				updated = e.Updated.Format(time.DateTime)
			}
			fmt.Printf("%-19s  %-4s  %s\n", updated, e.Form, e.Title)
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().Int("limit", 40, "maximum number of filings to show (0 for all)")
}

// --- Usage Command ---

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show today's FMP API usage and key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, counter, err := newRegistry()
		if err != nil {
			return err
		}
		logger.Debug().Str("path", counter.Path()).Msg("reading usage counter")
		fmt.Printf("FMP calls used today: %d\n", counter.Count())

		for _, k := range config.CheckAPIKeys(cfg) {
			status := "not set"
			if k.IsSet {
				status = fmt.Sprintf("set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("%-15s %s\n", k.Name+":", status)
		}
		fmt.Println()
		writeProviders(os.Stdout, reg)
		return nil
	},
}

// writeProviders lists the registered providers and the order in which
// market caps are looked up.
func writeProviders(w io.Writer, reg *provider.Registry) {
	for _, info := range reg.List() {
		models := make([]string, len(info.Models))
		for i, m := range info.Models {
			models[i] = string(m)
		}
		fmt.Fprintf(w, "%-10s %s\n", info.Name, strings.Join(models, ", "))
	}
	fmt.Fprintf(w, "market cap sources: %s\n", strings.Join(reg.ProvidersFor(provider.ModelMarketCap), " -> "))
}

// --- Config Command ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteFile(path, config.Default()); err != nil {
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%w; remove it first to regenerate", err)
			}
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
