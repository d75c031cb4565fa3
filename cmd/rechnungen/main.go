package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/willi202202/rechnungen-sort/internal/config"
	"github.com/willi202202/rechnungen-sort/internal/mailfetch"
	"github.com/willi202202/rechnungen-sort/internal/pdftext"
	"github.com/willi202202/rechnungen-sort/internal/pipeline"
	"github.com/willi202202/rechnungen-sort/internal/provider"
	"github.com/willi202202/rechnungen-sort/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	must(err)
	defer logger.Sync()

	cmd := os.Args[1]
	switch cmd {
	case "sort":
		db := openDB(cfg)
		defer db.Close()
		svc := pipeline.NewScanService(db, cfg, logger)
		summary, err := svc.ScanInbox()
		must(err)
		pipeline.WriteSummary(os.Stdout, summary)
	case "build:csv":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		only := fs.String("provider", "", "Swisscom|Swisscard|SZKB_Privatkonto|Strom (default: all)")
		_ = fs.Parse(os.Args[2:])
		buildCSVs(cfg, *only)
	case "verify:strom":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", cfg.StromVerifiedCSV, "output csv path")
		_ = fs.Parse(os.Args[2:])
		stats, err := pipeline.VerifyStromFolder(cfg.StromDir, *out, os.Stdout)
		must(err)
		fmt.Printf("verify done invoices=%d objects=%d ok=%d failed=%d\n", stats.Invoices, stats.Objects, stats.OK, stats.Failed)
	case "konto:filter":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		payee := fs.String("payee", "", "payee name, e.g. 'Agrisano Krankenkasse AG'")
		types := fs.String("types", strings.Join(pipeline.DefaultBookingTypes, ","), "booking type words")
		outdir := fs.String("outdir", cfg.OutputDir, "output directory")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*payee) == "" {
			must(fmt.Errorf("--payee is required"))
		}
		var bookingTypes []string
		for _, t := range strings.Split(*types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				bookingTypes = append(bookingTypes, t)
			}
		}
		filter := pipeline.NewKontoFilter(*payee, bookingTypes)
		csvPath, hits, err := filter.ScanFolder(cfg.SZKBDir, *outdir)
		must(err)
		fmt.Printf("konto filter done payee=%q bookings=%d csv=%s\n", *payee, hits, csvPath)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "rechnungen.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		db := openDB(cfg)
		defer db.Close()
		must(pipeline.ExportXLSX(db, cfg, *out))
		fmt.Printf("exported to %s\n", *out)
	case "mail:fetch":
		fetcher, err := mailfetch.NewFetcher(cfg, logger)
		must(err)
		result, err := fetcher.Fetch()
		must(err)
		fmt.Printf("mail fetch done messages=%d pdfs=%d\n", result.Messages, result.Saved)
	case "pdf:text":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "pdf path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		text, err := pdftext.ExtractFile(*input)
		must(err)
		fmt.Println(text)
	default:
		usage()
		os.Exit(1)
	}
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func buildCSVs(cfg config.Config, only string) {
	type job struct {
		name    string
		pdfDir  string
		csvPath string
	}
	jobs := []job{
		{"Swisscom", cfg.SwisscomDir, cfg.SwisscomCSV},
		{"Swisscard", cfg.SwisscardDir, cfg.SwisscardCSV},
		{"SZKB_Privatkonto", cfg.SZKBDir, cfg.SZKBCSV},
		{"Strom", cfg.StromDir, cfg.StromCSV},
	}

	reg := provider.NewRegistry(cfg)
	for _, j := range jobs {
		if only != "" && !strings.EqualFold(only, j.name) {
			continue
		}
		var stats pipeline.BuildStats
		var err error
		if j.name == "Strom" {
			stats, err = pipeline.BuildStromCSV(j.pdfDir, j.csvPath)
		} else {
			stats, err = pipeline.BuildProviderCSV(reg.ByName(j.name), j.pdfDir, j.csvPath)
		}
		must(err)
		fmt.Printf("%s: pdfs=%d written=%d skipped=%d errors=%d csv=%s\n",
			j.name, stats.Total, stats.Written, stats.Skipped, stats.Errors, j.csvPath)
	}
}

func usage() {
	fmt.Println("usage: rechnungen <command>")
	fmt.Println("commands:")
	fmt.Println("  sort")
	fmt.Println("  build:csv [--provider=Swisscom|Swisscard|SZKB_Privatkonto|Strom]")
	fmt.Println("  verify:strom [--out=...csv]")
	fmt.Println("  konto:filter --payee=... [--types=...] [--outdir=...]")
	fmt.Println("  export:xlsx [--out=...xlsx]")
	fmt.Println("  mail:fetch")
	fmt.Println("  pdf:text --input=...pdf")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
