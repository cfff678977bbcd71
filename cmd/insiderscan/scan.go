package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/insiderscan/internal/dataset"
	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/insider"
	"github.com/seenimoa/insiderscan/internal/logging"
	"github.com/seenimoa/insiderscan/internal/report"
	"github.com/seenimoa/insiderscan/internal/trace"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

func init() {
	f := rootCmd.Flags()
	f.Int("days", 30, "keep trades from the last N days")
	f.String("since", "", "keep trades on or after this date (YYYY-MM-DD), overrides --days")
	f.String("quarter", "", "use the data set of this quarter (YYYYQn) instead of the latest")
	f.Bool("require-market-cap", false, "drop trades whose market cap could not be resolved")
	f.Bool("enrich", false, "look up industry and share count history on EDGAR")
	f.Bool("trace", false, "print OpenTelemetry spans to stderr")
	f.Int("top", report.TableRows, "number of rows shown in the console table")
}

// runScan is the root command: acquire the data set, build and rank the
// records, print the table and write the CSV.
func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	days, _ := flags.GetInt("days")
	sinceFlag, _ := flags.GetString("since")
	quarterFlag, _ := flags.GetString("quarter")
	requireMC, _ := flags.GetBool("require-market-cap")
	enrich, _ := flags.GetBool("enrich")
	traceOn, _ := flags.GetBool("trace")
	top, _ := flags.GetInt("top")

	today := utils.Today()
	since := today.AddDate(0, 0, -days)
	if sinceFlag != "" {
		t, err := time.Parse(utils.ISODate, sinceFlag)
		if err != nil {
			return fmt.Errorf("invalid --since %q: want YYYY-MM-DD", sinceFlag)
		}
		since = t
	}
	if requireMC {
		cfg.MinRequirements.RequireMarketCap = true
	}

	if traceOn || cfg.Tracing.Enabled {
		shutdown, err := trace.Setup(ctx, os.Stderr, version)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer stopTracing(ctx, shutdown, logger)
	}

	reg, sp, counter, err := newRegistry()
	if err != nil {
		return err
	}

	src := dataset.NewSource(sp, cfg.DataDir, logger)
	var dir string
	if quarterFlag != "" {
		q, err := utils.ParseQuarter(quarterFlag)
		if err != nil {
			return err
		}
		if dir, err = src.Quarter(ctx, q); err != nil {
			return err
		}
	} else {
		if dir, _, err = src.Latest(ctx, today); err != nil {
			return err
		}
	}

	tables, err := dataset.Load(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	var enricher *insider.CompanyEnricher
	if enrich {
		enricher = insider.NewCompanyEnricher(reg, infra.NewFileCache(cfg.CacheDir()), logger)
	}
	resolver := insider.NewResolver(reg, cfg.Fetch.YahooMaxSymbols, logger)
	pipeline := insider.NewPipeline(cfg, enricher, resolver, logger)

	records, err := pipeline.Build(ctx, tables)
	if err != nil {
		return err
	}
	ranked := pipeline.Rank(records, since)

	columns := report.Columns(insider.JoinedHeader(tables), ranked)
	if len(columns) == 0 {
		fmt.Println("No results after filtering.")
		return nil
	}

	fmt.Println(report.RenderTable(ranked, columns, top, report.TableColumns))

	outPath := report.CSVPath(cfg.OutputDir, today)
	if err := report.WriteCSV(outPath, ranked, columns); err != nil {
		return err
	}
	fmt.Printf("\nWrote %d rows to %s\n", len(ranked), outPath)
	if cfg.FMP.APIKey != "" {
		fmt.Printf("FMP calls used today: %d\n", counter.Count())
	}
	return nil
}

// stopTracing flushes pending spans; a failure is logged, not returned.
func stopTracing(ctx context.Context, shutdown trace.ShutdownFunc, logger zerolog.Logger) {
	if err := shutdown(ctx); err != nil {
		l := logging.Component(logger, "trace")
		l.Warn().Err(err).Msg("shutdown failed")
	}
}
