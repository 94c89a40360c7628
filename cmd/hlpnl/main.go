package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/api"
	"github.com/Karan545/hyperliquid-pnl-tracker/internal/config"
	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
	"github.com/Karan545/hyperliquid-pnl-tracker/internal/report"
	"github.com/Karan545/hyperliquid-pnl-tracker/internal/summary"
)

// version is set at build time via ldflags in the release pipeline.
var version = "dev"

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		runExport(os.Args[2:])
	case "summary":
		runSummary(os.Args[2:])
	case "version":
		fmt.Printf("hlpnl v%s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	wallet := fs.String("wallet", "", "Hyperliquid wallet address")
	apiURL := fs.String("api-url", "", "Info endpoint override (default: production)")
	outDir := fs.String("out-dir", "", "Output directory (default: .)")
	fromDate := fs.String("from", "", "Start date (yyyy-mm-dd)")
	toDate := fs.String("to", "", "End date (yyyy-mm-dd)")
	days := fs.Int("days", 0, "Rolling lookback in days (1-90, instead of --from/--to)")
	output := fs.String("output", "", "Output file ('-' for stdout, default: conventional name)")
	format := fs.String("format", "csv", "Export format: csv or xlsx")
	sortRows := fs.Bool("sort", false, "Re-sort rows chronologically")

	// Short aliases
	fs.StringVar(wallet, "w", "", "")
	fs.StringVar(outDir, "d", "", "")
	fs.StringVar(output, "o", "", "")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hlpnl export [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *format != "csv" && *format != "xlsx" {
		log.Fatalf("Error: invalid --format %q (use csv or xlsx)", *format)
	}

	cfg, window := loadRequest(*wallet, *apiURL, *outDir, *fromDate, *toDate, *days)

	rep := buildReport(cfg, window, report.Options{SortChronological: *sortRows})

	log.Printf("Found %d fills for %s", rep.RowCount, cfg.Wallet)
	if rep.SkippedRows > 0 {
		log.Printf("Skipped %d records with missing or invalid timestamps", rep.SkippedRows)
	}

	switch {
	case *output == "-":
		if *format == "xlsx" {
			log.Fatalf("Error: xlsx output requires a file path")
		}
		if err := report.WriteCSV(os.Stdout, rep); err != nil {
			log.Fatalf("Error writing CSV: %v", err)
		}
	default:
		path := *output
		if path == "" {
			path = filepath.Join(cfg.OutputDir, report.FileName(cfg.Wallet, window, *format))
		}
		if err := writeFile(path, *format, rep); err != nil {
			log.Fatalf("Error: %v", err)
		}
		log.Printf("Wrote %s", path)
	}
}

func runSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	wallet := fs.String("wallet", "", "Hyperliquid wallet address")
	apiURL := fs.String("api-url", "", "Info endpoint override (default: production)")
	fromDate := fs.String("from", "", "Start date (yyyy-mm-dd)")
	toDate := fs.String("to", "", "End date (yyyy-mm-dd)")
	days := fs.Int("days", 0, "Rolling lookback in days (1-90, instead of --from/--to)")
	csvOutput := fs.Bool("csv", false, "Output as CSV")
	outputFile := fs.String("output", "", "Output file (default: stdout)")

	// Short aliases
	fs.StringVar(wallet, "w", "", "")
	fs.StringVar(outputFile, "o", "", "")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hlpnl summary [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, window := loadRequest(*wallet, *apiURL, "", *fromDate, *toDate, *days)

	rep := buildReport(cfg, window, report.Options{SortChronological: true})
	summaries := summary.Aggregate(rep.Rows)

	// Determine output writer
	var w *os.File
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatalf("Error creating output file: %v", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	if *csvOutput {
		if err := summary.ExportCSV(w, summaries); err != nil {
			log.Fatalf("Error writing CSV: %v", err)
		}
	} else {
		summary.PrintTable(w, summaries)
	}
}

func loadRequest(wallet, apiURL, outDir, fromDate, toDate string, days int) (*config.Config, models.TimeWindow) {
	cfg, err := config.Load(wallet, apiURL, outDir)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	window, err := config.ResolveWindow(fromDate, toDate, days, time.Now())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	return cfg, window
}

func buildReport(cfg *config.Config, window models.TimeWindow, opts report.Options) *models.Report {
	client := api.NewClient(cfg.APIURL)
	builder := report.NewBuilder(client)

	rep, err := builder.Build(context.Background(), cfg.Wallet, window, opts)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return rep
}

func writeFile(path, format string, rep *models.Report) error {
	if format == "xlsx" {
		return report.WriteXLSX(path, rep)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	return report.WriteCSV(f, rep)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `hlpnl v%s - Hyperliquid P&L Exporter

Fetch your executed fills from the Hyperliquid API, filter them to a
date window and export them as a P&L table.

Usage:
  hlpnl <command> [options]

Commands:
  export    Export fills as CSV or XLSX
  summary   Show per-asset P&L summary for a window
  version   Print version
  help      Show this help

Examples:
  hlpnl export -w 0xdeadbeef...                 # Month to date, CSV
  hlpnl export --from 2025-01-01 --to 2025-01-31
  hlpnl export --days 30 --format xlsx          # Last 30 days, Excel
  hlpnl export -o - --sort                      # Sorted CSV to stdout
  hlpnl summary --days 7                        # Weekly per-asset view

Configuration:
  Wallet via --wallet flag or .env file:
    HL_WALLET=0x...
    HL_OUTPUT_DIR=./exports

`, version)
}
